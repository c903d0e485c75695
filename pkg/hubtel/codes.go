package hubtel

// Status is the normalized outcome of any Hubtel response.
type Status string

const (
	StatusFinal   Status = "final"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
)

type responseCode struct {
	Meaning string
	Status  Status
}

// responseCodes is the fixed provider code table. Codes are compared as
// exact strings, "0000" and "0" are different codes.
var responseCodes = map[string]responseCode{
	"0000": {Meaning: "Success", Status: StatusFinal},
	"0001": {Meaning: "Pending - callback expected", Status: StatusPending},
	"2001": {Meaning: "Payment processor error / failed", Status: StatusFailed},
	"4000": {Meaning: "Validation error", Status: StatusFailed},
	"4070": {Meaning: "Fees configuration error", Status: StatusFailed},
	"4101": {Meaning: "Business not fully set up", Status: StatusFailed},
	"4103": {Meaning: "Permission denied", Status: StatusFailed},
}

// LookupCode returns the status mapped to a known response code.
func LookupCode(code string) (Status, bool) {
	rc, ok := responseCodes[code]
	if !ok {
		return "", false
	}
	return rc.Status, true
}

// CodeMeaning returns the provider's description of a known code, or "".
func CodeMeaning(code string) string {
	return responseCodes[code].Meaning
}
