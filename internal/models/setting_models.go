package models

import "time"

// StoredRecord is one row of the storage_records table used by the SQL record stores.
type StoredRecord struct {
	Key       string    `json:"key" db:"record_key"`
	Value     string    `json:"value" db:"record_value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClientsDocument is the JSON document persisted under the clients key.
type ClientsDocument struct {
	Version int      `json:"version"`
	LastID  int64    `json:"lastId,omitempty"`
	Clients []Client `json:"clients"`
}
