package storage

import "vehicle-reconciler/models"

// RecordWriter is the interface any augmented-record sink must satisfy.
type RecordWriter interface {
	Write(records []*models.SourceRecord) error
	Close() error
}

// RawResponseWriter persists untouched provider payloads.
type RawResponseWriter interface {
	SaveRaw(provider, stockNo string, payload any) error
}
