package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/agency-backoffice/internal/apperror"
	"github.com/sakif/agency-backoffice/internal/repository"
	"github.com/sakif/agency-backoffice/internal/service"
)

const maxBodyBytes = 1 << 20

// Aliases the key-folding rule cannot derive. Keys are matched after
// folding (case and underscores ignored).
var (
	interviewAliases = map[string]string{
		"developerid":      "dev_id",
		"officeid":         "dev_id",
		"jobapplicationid": "job_id",
	}
	jobApplicationAliases = map[string]string{
		"title":       "job_title",
		"companyname": "company",
		"status":      "application_status",
		"url":         "job_url",
	}
)

// foldKey makes "jobTitle", "JobTitle", "job_title" and "JOB_TITLE" equal.
func foldKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", ""))
}

func invalidJSON() error {
	return apperror.ValidationFailed("body", "invalid JSON body")
}

// decodeBody reads a JSON object into dst, a pointer to a struct with json
// tags.
//
// Clients send a mix of snake_case and camelCase names, so each body key is
// matched to a struct field by its json tag first, then by its folded form,
// then through aliases. A snake_case key always beats an alias for the same
// field. Unknown keys are ignored. Each field is decoded on its own so type
// errors are reported per field.
//
// Form-style clients quote their numbers, so a numeric field also accepts a
// string holding a number ("4200"). An empty string counts as not sent, or
// as null when the field is a pointer.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, aliases map[string]string) error {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil || raw == nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.TooLarge(tooLarge.Limit)
		}
		return invalidJSON()
	}

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()

	fields := make(map[string]int, t.NumField())
	folded := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = i
		folded[foldKey(name)] = name
	}

	values := make(map[string]json.RawMessage, len(raw))
	for k, val := range raw {
		if _, ok := fields[k]; ok {
			values[k] = val
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, exact := fields[k]; exact {
			continue
		}
		name, ok := folded[foldKey(k)]
		if !ok {
			name, ok = aliases[foldKey(k)]
		}
		if !ok {
			continue
		}
		if _, taken := values[name]; taken {
			continue
		}
		values[name] = raw[k]
	}

	details := make(map[string]string)
	for name, val := range values {
		field := v.Field(fields[name])
		val, skip := unquoteNumber(field.Type(), val)
		if skip {
			continue
		}
		if err := json.Unmarshal(val, field.Addr().Interface()); err != nil {
			details[name] = fieldError(err)
		}
	}
	if len(details) > 0 {
		return apperror.Invalid(details)
	}
	return nil
}

// unquoteNumber rewrites a quoted number for a numeric field of type t.
// skip is true when an empty string should leave the field untouched.
// Anything else is returned as is and fails or succeeds in json.Unmarshal.
func unquoteNumber(t reflect.Type, val json.RawMessage) (out json.RawMessage, skip bool) {
	switch jsonKind(t) {
	case "integer", "number":
	default:
		return val, false
	}
	var s string
	if err := json.Unmarshal(val, &s); err != nil {
		return val, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if t.Kind() == reflect.Pointer {
			return json.RawMessage("null"), false
		}
		return nil, true
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil || !json.Valid([]byte(s)) {
		return val, false
	}
	return json.RawMessage(s), false
}

func fieldError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("must be of type %s", jsonKind(typeErr.Type))
	}
	return err.Error()
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Uint, reflect.Uint64, reflect.Uint32:
		return "integer"
	case reflect.Float64, reflect.Float32:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	default:
		return t.Kind().String()
	}
}

// uintParam reads a numeric primary key from the URL.
func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, apperror.ValidationFailed(name, "must be a positive integer")
	}
	return uint(id), nil
}

// pageParams reads ?limit= and ?offset=. Missing values mean "all rows".
func pageParams(r *http.Request) (repository.ListOptions, error) {
	q := r.URL.Query()
	limit, offset := 0, 0
	details := make(map[string]string)

	for name, dst := range map[string]*int{"limit": &limit, "offset": &offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			details[name] = "must be an integer"
			continue
		}
		*dst = n
	}
	if len(details) > 0 {
		return repository.ListOptions{}, apperror.Invalid(details)
	}
	return service.Page(limit, offset), nil
}

// query returns a trimmed query parameter.
func query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
