// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/coursegrid/core"
)

// encoder writes MUS-encoded fields. With a nil buffer it only accumulates the
// encoded size, so the same field sequence drives both sizing and writing.
type encoder struct {
	bs []byte
	n  int
}

func (e *encoder) string(v string) {
	if e.bs == nil {
		e.n += ord.String.Size(v)
		return
	}
	e.n += ord.String.Marshal(v, e.bs[e.n:])
}

func (e *encoder) int(v int) {
	if e.bs == nil {
		e.n += varint.Int.Size(v)
		return
	}
	e.n += varint.Int.Marshal(v, e.bs[e.n:])
}

func (e *encoder) uint64(v uint64) {
	if e.bs == nil {
		e.n += varint.Uint64.Size(v)
		return
	}
	e.n += varint.Uint64.Marshal(v, e.bs[e.n:])
}

func (e *encoder) int64(v int64) {
	if e.bs == nil {
		e.n += varint.Int64.Size(v)
		return
	}
	e.n += varint.Int64.Marshal(v, e.bs[e.n:])
}

func (e *encoder) strings(vs []string) {
	e.int(len(vs))
	for _, v := range vs {
		e.string(v)
	}
}

// decoder reads MUS-encoded fields. The first error sticks and every later
// read returns a zero value.
type decoder struct {
	bs  []byte
	n   int
	err error
}

func (d *decoder) string() string {
	if d.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) int() int {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) uint64() uint64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

func (d *decoder) int64() int64 {
	if d.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(d.bs[d.n:])
	d.n += n
	d.err = err
	return v
}

// length reads a collection length and rejects values the remaining input
// cannot possibly hold.
func (d *decoder) length() int {
	l := d.int()
	if d.err == nil && (l < 0 || l > len(d.bs)-d.n) {
		d.err = fmt.Errorf("%w: length %d", ErrTruncatedData, l)
		return 0
	}
	return l
}

func (d *decoder) strings() []string {
	l := d.length()
	if l == 0 {
		return nil
	}
	vs := make([]string, l)
	for i := range vs {
		vs[i] = d.string()
	}
	return vs
}

func (d *decoder) finish(what string) error {
	if d.err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSerializationFailed, what, d.err)
	}
	return nil
}

func encode(fn func(*encoder)) []byte {
	e := &encoder{}
	fn(e)
	e.bs = make([]byte, e.n)
	e.n = 0
	fn(e)
	return e.bs
}

func encodeSection(e *encoder, s *core.Section) {
	e.string(s.ID)
	e.string(s.Code)
	e.string(s.Title)
	e.string(s.Description)
	e.string(s.Section)
	e.string(s.Professor)
	e.string(s.Term)
	e.int(s.Credits)
	e.strings(s.HubUnits)
	e.string(s.Department)
	e.string(s.College)
	e.int(len(s.Schedule))
	for _, m := range s.Schedule {
		e.string(m.Days)
		e.string(m.StartTime)
		e.string(m.EndTime)
		e.string(m.Location)
	}
	e.string(s.Status)
	e.int(s.EnrollmentCap)
	e.int(s.EnrollmentTotal)
	e.string(s.SectionType)
	e.int(s.ClassNumber)
}

// MarshalSection serializes a Section to bytes.
func MarshalSection(section *core.Section) []byte {
	return encode(func(e *encoder) { encodeSection(e, section) })
}

// UnmarshalSection deserializes a Section from bytes.
func UnmarshalSection(data []byte) (*core.Section, error) {
	d := &decoder{bs: data}
	s := &core.Section{
		ID:          d.string(),
		Code:        d.string(),
		Title:       d.string(),
		Description: d.string(),
		Section:     d.string(),
		Professor:   d.string(),
		Term:        d.string(),
		Credits:     d.int(),
		HubUnits:    d.strings(),
		Department:  d.string(),
		College:     d.string(),
	}
	if l := d.length(); l > 0 {
		s.Schedule = make([]core.Meeting, l)
		for i := range s.Schedule {
			s.Schedule[i] = core.Meeting{
				Days:      d.string(),
				StartTime: d.string(),
				EndTime:   d.string(),
				Location:  d.string(),
			}
		}
	}
	s.Status = d.string()
	s.EnrollmentCap = d.int()
	s.EnrollmentTotal = d.int()
	s.SectionType = d.string()
	s.ClassNumber = d.int()
	if err := d.finish("section"); err != nil {
		return nil, err
	}
	return s, nil
}

// MarshalCheckpoint serializes a Checkpoint to bytes. Timestamps keep
// microsecond precision.
func MarshalCheckpoint(checkpoint *core.Checkpoint) []byte {
	return encode(func(e *encoder) {
		e.string(checkpoint.Source)
		e.uint64(uint64(checkpoint.Fingerprint))
		e.int(checkpoint.Sections)
		e.int64(checkpoint.UpdatedAt.UnixMicro())
	})
}

// UnmarshalCheckpoint deserializes a Checkpoint from bytes.
func UnmarshalCheckpoint(data []byte) (*core.Checkpoint, error) {
	d := &decoder{bs: data}
	c := &core.Checkpoint{
		Source:      d.string(),
		Fingerprint: core.ID(d.uint64()),
		Sections:    d.int(),
		UpdatedAt:   time.UnixMicro(d.int64()).UTC(),
	}
	if err := d.finish("checkpoint"); err != nil {
		return nil, err
	}
	return c, nil
}

// MarshalSelection serializes an ordered list of section ids to bytes.
func MarshalSelection(ids []string) []byte {
	return encode(func(e *encoder) { e.strings(ids) })
}

// UnmarshalSelection deserializes an ordered list of section ids from bytes.
func UnmarshalSelection(data []byte) ([]string, error) {
	d := &decoder{bs: data}
	ids := d.strings()
	if err := d.finish("selection"); err != nil {
		return nil, err
	}
	return ids, nil
}
