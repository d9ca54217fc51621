// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/bookshelf-qa/internal/translate"
	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// DecodeRequest coerces a loosely shaped JSON object into a Request.
// Scalars are accepted for string fields (a numeric bookId becomes its
// decimal text); arrays and objects are rejected. Unknown keys are ignored.
func DecodeRequest(data []byte) (types.Request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return types.Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if raw == nil {
		return types.Request{}, fmt.Errorf("%w: request must be a JSON object", ErrInvalidRequest)
	}

	var req types.Request
	fields := []struct {
		key string
		dst *string
	}{
		{"message", &req.Message},
		{"bookId", &req.BookID},
		{"targetLanguage", &req.TargetLanguage},
	}
	for _, f := range fields {
		v, err := scalar(f.key, raw[f.key])
		if err != nil {
			return types.Request{}, err
		}
		*f.dst = v
	}
	scope, err := scalar("scope", raw["scope"])
	if err != nil {
		return types.Request{}, err
	}
	req.Scope = types.Scope(scope)
	return req, nil
}

func scalar(key string, v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidRequest, key)
	}
}

// Normalize trims the request and fills defaults: library scope and an
// English target. The target is kept as the caller wrote it.
func Normalize(req types.Request) types.Request {
	req.Message = strings.TrimSpace(req.Message)
	req.BookID = strings.TrimSpace(req.BookID)
	req.Scope = types.Scope(strings.ToLower(strings.TrimSpace(string(req.Scope))))
	if req.Scope == "" {
		req.Scope = types.ScopeLibrary
	}
	req.TargetLanguage = strings.TrimSpace(req.TargetLanguage)
	if req.TargetLanguage == "" {
		req.TargetLanguage = string(types.English)
	}
	return req
}

// targetCode reduces a target tag to its base language code. An
// unparsable tag is returned as is and fails later in localization.
func targetCode(tag string) string {
	if code, err := translate.NormalizeCode(tag); err == nil {
		return string(code)
	}
	return tag
}

// check validates a normalized request. Scope problems map to
// ErrInvalidScope; everything else to ErrInvalidRequest.
func check(v *validator.Validate, req types.Request) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Scope":
			return fmt.Errorf("%w: unrecognized scope %q", ErrInvalidScope, req.Scope)
		case "BookID":
			return fmt.Errorf("%w: scope %q requires a bookId", ErrInvalidScope, types.ScopeBook)
		}
	}
	fe := verrs[0]
	return fmt.Errorf("%w: %s failed %q", ErrInvalidRequest, strings.ToLower(fe.Field()), fe.Tag())
}
