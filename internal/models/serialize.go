package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RawFieldCount is the number of fields in the raw storage profile
const RawFieldCount = 20

// Raw renders the re-parseable storage profile:
// entity|imei|tnOrig|tnTerm|location|geohash|TYPE|seq|ts|dur|subtype|cft|ct|acc|use|vup|vdn|lat|lon|CODE
func (f FlattenedRecord) Raw() string {
	return strings.Join([]string{
		f.Entity,
		str(f.IMEI),
		str(f.TnOrig),
		str(f.TnTerm),
		str(f.Location),
		str(f.Geohash),
		f.Type.String(),
		num(f.Seq),
		num(f.Timestamp),
		num(f.Duration),
		num(f.Subtype),
		num(f.Cause),
		num(f.CallType),
		num(f.Accuracy),
		num(f.Use),
		num(f.VolUp),
		num(f.VolDown),
		flt(f.Lat),
		flt(f.Lon),
		f.Code.String(),
	}, "|")
}

// Flat renders the compact per-entity profile:
// ts|seq|dur|location|type|subtype|cft|ct|acc|use|lat|lon
func (f FlattenedRecord) Flat() string {
	return strings.Join([]string{
		num(f.Timestamp),
		num(f.Seq),
		num(f.Duration),
		str(f.Location),
		strconv.Itoa(int(f.Type)),
		num(f.Subtype),
		num(f.Cause),
		num(f.CallType),
		num(f.Accuracy),
		num(f.Use),
		flt(f.Lat),
		flt(f.Lon),
	}, "|")
}

// StoreValue renders the value stored under both index layouts:
// typeCode|dur|subtype|lat|lon
func (f FlattenedRecord) StoreValue(typeCode int) string {
	return strings.Join([]string{
		strconv.Itoa(typeCode),
		num(f.Duration),
		num(f.Subtype),
		flt(f.Lat),
		flt(f.Lon),
	}, "|")
}

// ParseRaw reads a line written by Raw back into a FlattenedRecord.
func ParseRaw(line string) (FlattenedRecord, error) {
	var f FlattenedRecord
	v := strings.Split(line, "|")
	if len(v) != RawFieldCount {
		return f, fmt.Errorf("raw record has %d fields, want %d", len(v), RawFieldCount)
	}
	code, ok := ParseParseCode(v[19])
	if !ok {
		return f, fmt.Errorf("unknown parse code %q", v[19])
	}

	f.Entity = v[0]
	f.Type = ParseLocationType(v[6])
	f.IMEI = optStr(v[1])
	if f.Type == TypeAWSD {
		// data sessions carry the imei field even when it is empty
		f.IMEI = String(v[1])
	}
	f.TnOrig = optStr(v[2])
	f.TnTerm = optStr(v[3])
	f.Location = optStr(v[4])
	f.Geohash = optStr(v[5])
	f.Seq = optInt(v[7])
	f.Timestamp = optInt(v[8])
	f.Duration = optInt(v[9])
	f.Subtype = optInt(v[10])
	f.Cause = optInt(v[11])
	f.CallType = optInt(v[12])
	f.Accuracy = optInt(v[13])
	f.Use = optInt(v[14])
	f.VolUp = optInt(v[15])
	f.VolDown = optInt(v[16])
	f.Lat = optFloat(v[17])
	f.Lon = optFloat(v[18])
	f.Code = code
	f.CodeName = code.String()
	return f, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func flt(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(s string) *int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func optFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
