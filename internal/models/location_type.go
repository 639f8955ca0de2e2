package models

// LocationType identifies which raw feed a record came from.
// The numeric value is the type code written into stored values.
type LocationType int

// LocationType constants
const (
	TypeUnknown   LocationType = 0
	TypeSMSD      LocationType = 1 // SMS event
	TypeAWSV      LocationType = 2 // voice session
	TypeAWSD      LocationType = 3 // data session
	TypeNELOS     LocationType = 5 // passive network fix
	TypeCLOSENUPH LocationType = 6 // proximity fix
	TypeWIFI      LocationType = 7 // wifi venue fix
)

// TypeCodeAWSD4G is the stored type code of a data-session hop whose
// location is not a legacy 3G cell.
const TypeCodeAWSD4G = 4

var locationTypeNames = map[LocationType]string{
	TypeUnknown:   "UNKNOWN",
	TypeSMSD:      "SMSD",
	TypeAWSV:      "AWSV",
	TypeAWSD:      "AWSD",
	TypeNELOS:     "NELOS",
	TypeCLOSENUPH: "CLOSENUPH",
	TypeWIFI:      "WIFI",
}

func (t LocationType) String() string {
	if name, ok := locationTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLocationType returns the type named s, or TypeUnknown.
func ParseLocationType(s string) LocationType {
	for t, name := range locationTypeNames {
		if name == s {
			return t
		}
	}
	return TypeUnknown
}

// TypeLabel maps a stored type code to the label used by compact output.
func TypeLabel(code string) string {
	switch code {
	case "1":
		return "SMSD"
	case "2":
		return "AWSV"
	case "3":
		return "AWSD_3G"
	case "4":
		return "AWSD_4G"
	case "5":
		return "NELOS"
	case "6":
		return "CLOSENUPH"
	case "7":
		return "WIFI"
	}
	return "UNKNOWN"
}
