package driver

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Increment when the export format changes.
const exportSchemaVersion uint16 = 1

// ExportPayload is the machine-readable summary of one analyzed fixture,
// stable enough for an IDE host to cache between sessions.
type ExportPayload struct {
	Schema uint16
	Name   string
	Path   string
	Diags  []ExportDiag
	Dumps  []Dump
	Walks  []Dump
}

// ExportDiag flattens a diagnostic to plain fields.
type ExportDiag struct {
	Code     uint16
	Severity uint8
	Message  string
	Start    uint32
	End      uint32
}

func exportPayload(res *Result) ExportPayload {
	p := ExportPayload{
		Schema: exportSchemaVersion,
		Path:   res.Path,
		Dumps:  res.Dumps,
		Walks:  res.Walks,
	}
	if res.Program != nil {
		p.Name = res.Program.Name
	}
	for _, d := range res.Bag.Items() {
		p.Diags = append(p.Diags, ExportDiag{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return p
}

// WriteExport encodes the results to path with msgpack.
func WriteExport(path string, results []*Result) error {
	payloads := make([]ExportPayload, 0, len(results))
	for _, res := range results {
		payloads = append(payloads, exportPayload(res))
	}
	data, err := msgpack.Marshal(payloads)
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ReadExport decodes a file written by WriteExport, rejecting payloads from
// other schema versions.
func ReadExport(path string) ([]ExportPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var payloads []ExportPayload
	if err := msgpack.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	for i := range payloads {
		if payloads[i].Schema != exportSchemaVersion {
			return nil, fmt.Errorf("export schema %d unsupported (want %d)", payloads[i].Schema, exportSchemaVersion)
		}
	}
	return payloads, nil
}
