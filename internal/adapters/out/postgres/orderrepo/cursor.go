package orderrepo

import (
	"encoding/base64"
	"encoding/json"

	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
)

// pageCursor is the keyset position after the last row of a page.
type pageCursor struct {
	Key     string    `json:"k"`
	OrderID uuid.UUID `json:"id"`
}

func encodeCursor(c pageCursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func decodeCursor(s string) (pageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return pageCursor{}, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}
	var c pageCursor
	if err = json.Unmarshal(raw, &c); err != nil {
		return pageCursor{}, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}
	if c.Key == "" || c.OrderID == uuid.Nil {
		return pageCursor{}, errs.NewValueIsInvalidError("cursor")
	}
	return c, nil
}
