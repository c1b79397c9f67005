package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/session"
	"github.com/ValentinKolb/techlog/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("cli")

// ErrInputClosed is returned by the prompt helpers when the input stream ends
var ErrInputClosed = errors.New("input closed")

// Shell is the interactive menu of techlog
type Shell struct {
	in   *bufio.Reader
	out  io.Writer
	sess *session.Session
}

// New creates a shell reading from in and writing to out
func New(in io.Reader, out io.Writer, sess *session.Session) *Shell {
	return &Shell{
		in:   bufio.NewReader(in),
		out:  out,
		sess: sess,
	}
}

// Run shows the menu until the user saves and exits or the input ends.
// When the input ends a final flush is attempted and its error is returned.
func (sh *Shell) Run() error {
	for {
		sh.printMenu()
		choice, err := sh.readLine()
		if errors.Is(err, ErrInputClosed) {
			sh.println("\n  Input closed, exiting.")
			return sh.flush()
		}

		switch choice {
		case "1":
			err = sh.addHardware()
		case "2":
			err = sh.addSoftware()
		case "3":
			sh.listAll()
		case "4":
			err = sh.find()
		case "5":
			err = sh.delete()
		case "6":
			if sh.flush() == nil {
				sh.println("\n  Goodbye.\n")
				return nil
			}
			sh.println("  The log was not saved. Fix the problem and try again.")
		case "7":
			sh.summary()
		default:
			sh.println("  Invalid option. Please try again.")
		}

		if errors.Is(err, ErrInputClosed) {
			sh.println("\n  Input closed, exiting.")
			return sh.flush()
		}
	}
}

func (sh *Shell) printMenu() {
	sh.println("\n--- MENU ----------------------------------------")
	sh.println("  1. Add hardware intervention")
	sh.println("  2. Add software intervention")
	sh.println("  3. List all interventions")
	sh.println("  4. Find intervention by ID")
	sh.println("  5. Delete intervention by ID")
	sh.println("  6. Save and exit")
	sh.println("  7. Billing summary")
	sh.print("  Choice: ")
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

func (sh *Shell) addHardware() error {
	sh.println("\n-- New hardware intervention --")
	client, date, description, err := sh.readCommon()
	if err != nil {
		return err
	}
	part, err := sh.readRequired("  Replacement part: ")
	if err != nil {
		return err
	}
	r, err := sh.sess.AddHardware(client, date, description, part)
	sh.reportAdded(r, err)
	return nil
}

func (sh *Shell) addSoftware() error {
	sh.println("\n-- New software intervention --")
	client, date, description, err := sh.readCommon()
	if err != nil {
		return err
	}
	operatingSystem, err := sh.readRequired("  Operating system: ")
	if err != nil {
		return err
	}
	r, err := sh.sess.AddSoftware(client, date, description, operatingSystem)
	sh.reportAdded(r, err)
	return nil
}

// readCommon reads the fields shared by both kinds of intervention
func (sh *Shell) readCommon() (client string, date time.Time, description string, err error) {
	if client, err = sh.readRequired("  Client: "); err != nil {
		return
	}
	if date, err = sh.readDate("  Date (YYYY-MM-DD, enter for today): "); err != nil {
		return
	}
	description, err = sh.readRequired("  Description: ")
	return
}

func (sh *Shell) reportAdded(r record.Record, err error) {
	if err != nil {
		sh.printf("  [X] %v\n", err)
		return
	}
	sh.printf("  Added --> %s\n", r)
}

func (sh *Shell) listAll() {
	l := sh.sess.List()
	if len(l.Records) == 0 {
		sh.println("\n  No interventions logged.")
		return
	}
	sh.printf("\n-- Logged interventions (%d) ----------------\n", len(l.Records))
	for _, r := range l.Records {
		sh.printf("  %s\n", r)
	}
	sh.printf("\n  Estimated billable total: %s EUR\n", record.FormatTariff(l.Total))
}

func (sh *Shell) find() error {
	id, err := sh.readRequired("\n  ID to find: ")
	if err != nil {
		return err
	}
	r, err := sh.sess.Find(id)
	if err != nil {
		sh.reportLookup(err)
		return nil
	}
	sh.printf("  Found --> %s\n", r)
	return nil
}

func (sh *Shell) delete() error {
	id, err := sh.readRequired("\n  ID to delete: ")
	if err != nil {
		return err
	}
	if err := sh.sess.Delete(id); err != nil {
		sh.reportLookup(err)
		return nil
	}
	sh.printf("  Intervention %s deleted.\n", record.NormalizeID(id))
	return nil
}

func (sh *Shell) reportLookup(err error) {
	if id, ok := store.IsNotFound(err); ok {
		sh.printf("  [X] No intervention found with ID: %s\n", id)
		return
	}
	sh.printf("  [X] %v\n", err)
}

func (sh *Shell) summary() {
	s := sh.sess.Summary()
	sh.println("\n-- Billing summary ------------------------------")
	WriteSummary(sh.out, s)
}

// WriteSummary renders a billing summary as an aligned table
func WriteSummary(out io.Writer, s session.Summary) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tKind\tCount\tTotal\tMean\tMin\tMax\t")
	row := func(name string, st session.Stats) {
		fmt.Fprintf(tw, "\t%s\t%d\t%s\t%s\t%s\t%s\t\n", name, st.Count,
			record.FormatTariff(st.Total), record.FormatTariff(st.Mean),
			record.FormatTariff(st.Min), record.FormatTariff(st.Max))
	}
	row(string(record.KindHardware), s.Hardware)
	row(string(record.KindSoftware), s.Software)
	row("All", s.All)
	_ = tw.Flush()
}

func (sh *Shell) flush() error {
	if err := sh.sess.Flush(); err != nil {
		sh.printf("  [X] Save failed: %v\n", err)
		return err
	}
	sh.println("  Log saved.")
	return nil
}

// --------------------------------------------------------------------------
// Input
// --------------------------------------------------------------------------

// readLine reads one trimmed line of any length. A last line without a
// newline is returned before ErrInputClosed.
func (sh *Shell) readLine() (string, error) {
	line, err := sh.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warningf("reading input failed: %v", err)
			return "", ErrInputClosed
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimSpace(line), nil
}

// readRequired prompts until a non-empty line is entered
func (sh *Shell) readRequired(prompt string) (string, error) {
	sh.print(prompt)
	for {
		line, err := sh.readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		sh.print("  (required) " + prompt)
	}
}

// readDate reads a date. Empty input means today, unparsable input prints a
// message and also means today.
func (sh *Shell) readDate(prompt string) (time.Time, error) {
	sh.print(prompt)
	line, err := sh.readLine()
	if err != nil {
		return time.Time{}, err
	}
	if line == "" {
		return sh.sess.Today(), nil
	}
	date, err := record.ParseDate(line)
	if err != nil {
		sh.println("  Invalid format, using today's date.")
		return sh.sess.Today(), nil
	}
	return date, nil
}

func (sh *Shell) print(s string) {
	_, _ = io.WriteString(sh.out, s)
}

func (sh *Shell) println(s string) {
	_, _ = io.WriteString(sh.out, s+"\n")
}

func (sh *Shell) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(sh.out, format, args...)
}
