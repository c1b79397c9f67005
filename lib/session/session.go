package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/techlog/lib/persist"
	"github.com/ValentinKolb/techlog/lib/record"
	"github.com/ValentinKolb/techlog/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/shopspring/decimal"
)

var log = logger.GetLogger("session")

// maxIDAttempts bounds the number of ids tried when generated ids collide
const maxIDAttempts = 16

// Engine is the persistence used by a session
type Engine interface {
	Save(records []record.Record) error
	Load() persist.LoadResult
}

// Session owns the store and the engine of a techlog process
type Session struct {
	store  store.IStore
	engine Engine
	newID  func() (string, error)
	now    func() time.Time
}

// Option configures a Session
type Option func(*Session)

// WithIDSource replaces the generator used for new record ids
func WithIDSource(f func() (string, error)) Option {
	return func(s *Session) {
		s.newID = f
	}
}

// WithClock replaces the clock used for "today"
func WithClock(f func() time.Time) Option {
	return func(s *Session) {
		s.now = f
	}
}

// New creates a session. The store is not loaded until Open is called.
func New(st store.IStore, engine Engine, opts ...Option) *Session {
	s := &Session{
		store:  st,
		engine: engine,
		newID:  record.NewID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the persisted records into the store, replacing its content.
// The returned result reports a first run or a load warning. In both cases
// the store is empty afterwards.
func (s *Session) Open() persist.LoadResult {
	res := s.engine.Load()
	if err := s.store.Reset(res.Records); err != nil {
		log.Errorf("cannot use loaded records: %v", err)
		_ = s.store.Reset(nil)
		return persist.LoadResult{Warning: err}
	}
	return res
}

// Today returns the current calendar date
func (s *Session) Today() time.Time {
	return record.Day(s.now())
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// AddHardware logs a hardware intervention. A zero date means today.
func (s *Session) AddHardware(client string, date time.Time, description, replacementPart string) (record.Record, error) {
	date = s.dateOrToday(date)
	return s.add(func(id string) (record.Record, error) {
		return record.NewHardware(id, client, date, description, replacementPart)
	})
}

// AddSoftware logs a software intervention. A zero date means today.
func (s *Session) AddSoftware(client string, date time.Time, description, operatingSystem string) (record.Record, error) {
	date = s.dateOrToday(date)
	return s.add(func(id string) (record.Record, error) {
		return record.NewSoftware(id, client, date, description, operatingSystem)
	})
}

func (s *Session) dateOrToday(date time.Time) time.Time {
	if date.IsZero() {
		return s.Today()
	}
	return date
}

// add builds a record with a fresh id and stores it. Colliding ids are
// regenerated up to maxIDAttempts times.
func (s *Session) add(build func(id string) (record.Record, error)) (record.Record, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate id: %w", err)
		}
		r, err := build(id)
		if err != nil {
			return nil, err
		}
		if err := s.store.Add(r); err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				log.Debugf("generated id %s is taken, retrying", id)
				continue
			}
			return nil, err
		}
		log.Infof("added %s record %s for %s", r.Kind(), r.ID(), r.Client())
		return r, nil
	}
	return nil, store.NewError(store.RetCInternalError, "", fmt.Sprintf("no unique id after %d attempts", maxIDAttempts))
}

// Listing is the content of the store together with the sum of all tariffs
type Listing struct {
	Records []record.Record
	Total   decimal.Decimal
}

// List returns all records in insertion order
func (s *Session) List() Listing {
	records := s.store.ListAll()
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Tariff())
	}
	return Listing{Records: records, Total: total}
}

// Find returns the record with the given id (case-insensitive)
func (s *Session) Find(id string) (record.Record, error) {
	return s.store.FindByID(id)
}

// Delete removes the record with the given id (case-insensitive)
func (s *Session) Delete(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	log.Infof("deleted record %s", record.NormalizeID(id))
	return nil
}

// Changes lists the fields to replace in Edit. Nil fields are left as they are.
type Changes struct {
	Client      *string
	Date        *time.Time
	Description *string
	// Detail is the replacement part of a hardware record or the operating
	// system of a software record.
	Detail *string
}

// Empty reports whether c changes nothing
func (c Changes) Empty() bool {
	return c.Client == nil && c.Date == nil && c.Description == nil && c.Detail == nil
}

// Edit applies changes to the record with the given id and returns the result.
// If any change is invalid the record is left unchanged.
func (s *Session) Edit(id string, changes Changes) (record.Record, error) {
	if changes.Empty() {
		return nil, store.InvalidArgument("nothing to change")
	}
	err := s.store.Update(id, func(r record.Record) error {
		if changes.Client != nil {
			if err := r.SetClient(*changes.Client); err != nil {
				return err
			}
		}
		if changes.Date != nil {
			if err := r.SetDate(*changes.Date); err != nil {
				return err
			}
		}
		if changes.Description != nil {
			if err := r.SetDescription(*changes.Description); err != nil {
				return err
			}
		}
		if changes.Detail != nil {
			return setDetail(r, *changes.Detail)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infof("edited record %s", record.NormalizeID(id))
	return s.store.FindByID(id)
}

func setDetail(r record.Record, detail string) error {
	switch v := r.(type) {
	case *record.Hardware:
		return v.SetReplacementPart(detail)
	case *record.Software:
		return v.SetOperatingSystem(detail)
	default:
		return fmt.Errorf("unsupported record type %T", r)
	}
}

// Flush saves the current content of the store. A failed flush leaves the
// session usable and the data file unchanged.
func (s *Session) Flush() error {
	return s.engine.Save(s.store.ListAll())
}
