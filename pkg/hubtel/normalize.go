package hubtel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const invalidFormatMessage = "Invalid response format"

// Result is a Hubtel response reduced to the fields the store relies on.
// Code is nil when the response carried no code.
type Result struct {
	Code    *string        `json:"code"`
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// CodeString returns the response code or "" when there was none.
func (r Result) CodeString() string {
	if r.Code == nil {
		return ""
	}
	return *r.Code
}

// DataString returns the first non-empty string found under keys in Data.
func (r Result) DataString(keys ...string) string {
	for _, k := range keys {
		if s, ok := scalarString(r.Data[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

func errorResult(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// Normalize decodes a raw response body and normalizes it. Numbers are kept
// as their literal text so a numeric code is never reformatted.
func Normalize(raw []byte) Result {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return errorResult(invalidFormatMessage)
	}
	return NormalizeValue(v)
}

// NormalizeValue maps a decoded response onto the fixed status vocabulary:
// a known code wins, then the nested data status, otherwise the response is an error.
func NormalizeValue(v any) Result {
	obj, ok := v.(map[string]any)
	if !ok {
		return errorResult(invalidFormatMessage)
	}

	res := Result{}
	if code, ok := scalarString(firstPresent(obj, "ResponseCode", "responseCode")); ok && code != "" {
		res.Code = &code
	}
	if msg, ok := scalarString(firstPresent(obj, "Message", "message")); ok {
		res.Message = msg
	}
	data, dataIsObject := firstPresent(obj, "Data", "data").(map[string]any)
	if dataIsObject {
		res.Data = data
	}

	if status, known := LookupCode(res.CodeString()); known {
		res.Status = status
		return res
	}
	if dataIsObject {
		res.Status = dataStatus(data)
		return res
	}
	res.Status = StatusError
	return res
}

// dataStatus reads the nested status field. Every value that is not
// recognized, including a missing one, maps to pending.
func dataStatus(data map[string]any) Status {
	s, _ := scalarString(firstPresent(data, "status", "Status"))
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return StatusFinal
	case "unpaid", "failed":
		return StatusFailed
	default:
		return StatusPending
	}
}

// firstPresent returns the value of the first key holding a non-empty value.
func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !isEmpty(v) {
			return v
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return fmt.Sprint(t), true
	}
	return "", false
}
