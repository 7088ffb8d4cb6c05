package models

import (
	"strings"
	"time"
)

type StatusCheck struct {
	ID         string    `json:"id" bson:"id"`
	ClientName string    `json:"client_name" bson:"client_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

type StatusCheckCreate struct {
	ClientName string `json:"client_name"`
}

func (in *StatusCheckCreate) Validate() error {
	if strings.TrimSpace(in.ClientName) == "" {
		return NewValidationError("client_name", "field required")
	}
	return nil
}
