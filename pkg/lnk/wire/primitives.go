package wire

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Seconds between the FILETIME epoch (1601-01-01) and the Unix epoch.
const filetimeUnixOffset = 11644473600

// FILETIME ticks per second (100ns intervals).
const filetimeTicksPerSecond = 10000000

// oleDateEpoch is day zero of an OLE Automation date.
var oleDateEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Valid OLE Automation dates lie strictly between these day counts:
// 0100-01-01 up to the end of 9999-12-31.
const (
	oleDateMin = -657435
	oleDateMax = 2958466
)

// GUIDFromBytes converts a 16-byte GUID in its binary wire layout
// (Data1, Data2 and Data3 little-endian, Data4 literal) to a UUID.
func GUIDFromBytes(b []byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:16])
	return u
}

// ReadGUID reads a 16-byte mixed-endian GUID.
func (c *Cursor) ReadGUID() (uuid.UUID, error) {
	b, err := c.ReadBytes(16)
	if err != nil {
		return uuid.Nil, err
	}
	return GUIDFromBytes(b), nil
}

// FiletimeToTime converts a FILETIME tick count to a UTC time.
// The whole-second and sub-second parts are split before scaling so the
// full uint64 range is representable.
func FiletimeToTime(ft uint64) time.Time {
	secs := int64(ft / filetimeTicksPerSecond)
	nanos := int64(ft%filetimeTicksPerSecond) * 100
	return time.Unix(secs-filetimeUnixOffset, nanos).UTC()
}

// ReadFiletime reads a FILETIME (low dword first) and converts it.
func (c *Cursor) ReadFiletime() (time.Time, error) {
	v, err := c.ReadU64()
	if err != nil {
		return time.Time{}, err
	}
	return FiletimeToTime(v), nil
}

// OLEDateToTime converts an OLE Automation date (fractional days since
// 1899-12-30) to a UTC time. The fraction is the time of day even for
// negative dates, so -1.25 is 1899-12-29 06:00. It reports false for
// values outside 0100-01-01 to 9999-12-31 and for NaN or infinities.
func OLEDateToTime(days float64) (time.Time, bool) {
	if math.IsNaN(days) || days <= oleDateMin || days >= oleDateMax {
		return time.Time{}, false
	}
	whole, frac := math.Modf(days)
	return oleDateEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(math.Abs(frac) * float64(24*time.Hour))), true
}

// Bit reports whether bit n of v is set.
func Bit(v uint32, n uint) bool {
	return v&(1<<n) != 0
}
