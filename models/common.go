package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FileAttachment is an uploaded file reference as returned by the upload
// endpoint: a public URL plus the original display name.
type FileAttachment struct {
	URL  string `gorm:"column:url" json:"url"`
	Name string `gorm:"column:name" json:"name"`
}

// StringList stores a slice of strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}

	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}
