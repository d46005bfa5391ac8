package mstime

import (
	"testing"
	"time"
)

func TestUnixMilliRoundTrip(t *testing.T) {
	tests := []int64{0, 1, 999, 1000, 1600000000123, -1500}
	for _, ms := range tests {
		got := TimeToUnixMilli(UnixMilliToTime(ms))
		if got != ms {
			t.Errorf("TestUnixMilliRoundTrip: %d became %d", ms, got)
		}
	}
}

func TestReduceToMillisecondPrecision(t *testing.T) {
	original := time.Unix(100, 123456789)
	reduced := ReduceToMillisecondPrecision(original)
	if reduced.Nanosecond() != 123000000 {
		t.Fatalf("TestReduceToMillisecondPrecision: got %d nanoseconds", reduced.Nanosecond())
	}
	if reduced.Unix() != 100 {
		t.Fatalf("TestReduceToMillisecondPrecision: got %d seconds", reduced.Unix())
	}
}
