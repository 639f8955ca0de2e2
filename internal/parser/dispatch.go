package parser

import (
	"strings"

	"github.com/jengzang/locstore-backend-go/internal/models"
)

// signature is the cheap structural fingerprint of a raw line
type signature struct {
	delim  byte
	fields int
}

type decodeFunc func(p *Parser, f []string, st *state) error

type format struct {
	typ    models.LocationType
	decode decodeFunc
}

var formats = map[signature]format{
	{'|', 8}:  {models.TypeNELOS, decodePassive},
	{'|', 11}: {models.TypeWIFI, decodeWifi},
	{'|', 28}: {models.TypeSMSD, decodeSMS},
	{'|', 41}: {models.TypeAWSV, decodeVoice},
	{'|', 45}: {models.TypeAWSD, decodeData},
	{',', 12}: {models.TypeCLOSENUPH, decodeProximity},
}

// classify splits line on its delimiter and returns the signature.
// Pipe-delimited layouts take precedence over comma-delimited ones.
func classify(line string) (signature, []string) {
	if strings.IndexByte(line, '|') >= 0 {
		f := strings.Split(line, "|")
		return signature{'|', len(f)}, f
	}
	f := strings.Split(line, ",")
	return signature{',', len(f)}, f
}

// Detect returns the record type line would be parsed as.
func Detect(line string) models.LocationType {
	sig, _ := classify(line)
	if f, ok := formats[sig]; ok {
		return f.typ
	}
	return models.TypeUnknown
}
