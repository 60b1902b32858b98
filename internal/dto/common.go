package dto

import "github.com/aarondl/null/v8"

// Patch-поля для частичного обновления: отсутствие поля в теле запроса и
// явный null — разные вещи. Set=true означает, что поле было прислано.

type PatchString struct {
	Set   bool
	Value null.String
}

func (p *PatchString) UnmarshalJSON(data []byte) error {
	p.Set = true
	return p.Value.UnmarshalJSON(data)
}

type PatchUint64 struct {
	Set   bool
	Value null.Uint64
}

func (p *PatchUint64) UnmarshalJSON(data []byte) error {
	p.Set = true
	return p.Value.UnmarshalJSON(data)
}

type PatchInt64 struct {
	Set   bool
	Value null.Int64
}

func (p *PatchInt64) UnmarshalJSON(data []byte) error {
	p.Set = true
	return p.Value.UnmarshalJSON(data)
}
