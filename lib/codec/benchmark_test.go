package codec

import (
	"fmt"
	"testing"
	"time"

	"github.com/ValentinKolb/techlog/lib/record"
)

// benchmarkRecords creates n records alternating between both variants
func benchmarkRecords(b *testing.B, n int) []record.Record {
	b.Helper()
	day := record.Date(2024, time.January, 1)
	out := make([]record.Record, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%08X", i)
		var r record.Record
		var err error
		if i%2 == 0 {
			r, err = record.NewHardware(id, "Client "+id, day.AddDate(0, 0, i), "replaced a broken component", "SSD 1TB")
		} else {
			r, err = record.NewSoftware(id, "Client "+id, day.AddDate(0, 0, i), "reinstalled the operating system", "Windows Server 2022")
		}
		if err != nil {
			b.Fatal(err)
		}
		out = append(out, r)
	}
	return out
}

func BenchmarkEncode(b *testing.B) {
	records := benchmarkRecords(b, 1000)
	for name, factory := range testCodecs {
		b.Run(name, func(b *testing.B) {
			c := factory()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.Encode(records); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	records := benchmarkRecords(b, 1000)
	for name, factory := range testCodecs {
		b.Run(name, func(b *testing.B) {
			c := factory()
			data, err := c.Encode(records)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportMetric(float64(len(data)), "bytes/file")
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
