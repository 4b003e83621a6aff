package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentMeta describes an uploaded file. The bytes themselves are not kept
// on the deal, only the extraction excerpt.
type DocumentMeta struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	DocType    string    `json:"doc_type"`
	SizeBytes  int64     `json:"size_bytes"`
	PageCount  *int      `json:"page_count,omitempty"`
	Stage      Stage     `json:"stage"`
	UploadedAt time.Time `json:"uploaded_at"`
	Excerpt    string    `json:"excerpt"`
}

// AttachDocument records doc on the deal and, while the deal is live, links it
// to the current stage record.
func (d *Deal) AttachDocument(doc DocumentMeta, now time.Time) DocumentMeta {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.UploadedAt = now.UTC()
	if sd, ok := d.CurrentStageData(); ok {
		doc.Stage = d.CurrentStage
		sd.Documents = append(sd.Documents, doc.ID)
	} else if st, _ := d.LastActiveStage(); st != "" {
		doc.Stage = st
	}
	d.Documents = append(d.Documents, doc)
	d.touch(now)
	return doc
}
