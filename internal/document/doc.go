// Package document holds the value types of an editable OCR document: text
// regions, selections and the immutable snapshots that history is built from.
//
// A Snapshot never changes after it is published. Edits go through a Draft,
// a deep copy of the region list that shares the read-only image:
//
//	d := snap.Edit()
//	d.Regions[0].Text = "corrected"
//	next := d.Publish()
package document
