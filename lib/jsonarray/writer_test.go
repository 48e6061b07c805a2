// Copyright 2026 The Ardump Authors
// SPDX-License-Identifier: Apache-2.0

package jsonarray

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type record struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

func TestArrayWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	writer := NewArrayWriter(&buf)
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("empty array rendered %q, want %q", got, "[]\n")
	}
}

func TestArrayWriterOpenedButEmpty(t *testing.T) {
	var buf bytes.Buffer
	writer := NewArrayWriter(&buf)
	if err := writer.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	var decoded []record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 0 {
		t.Errorf("decoded %d elements, want 0", len(decoded))
	}
}

func TestArrayWriterElements(t *testing.T) {
	var buf bytes.Buffer
	writer := NewArrayWriter(&buf)
	for i := 0; i < 3; i++ {
		if err := writer.WriteItem(record{Name: "item", Index: i}); err != nil {
			t.Fatalf("WriteItem %d failed: %v", i, err)
		}
	}
	if writer.Count() != 3 {
		t.Errorf("Count = %d, want 3", writer.Count())
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var decoded []record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 3 {
		t.Fatalf("decoded %d elements, want 3", len(decoded))
	}
	for i, r := range decoded {
		if r.Index != i {
			t.Errorf("element %d has index %d: order not preserved", i, r.Index)
		}
	}
	if !strings.Contains(buf.String(), "\n    \"name\"") {
		t.Errorf("elements are not indented:\n%s", buf.String())
	}
}

func TestArrayWriterRejectsWriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	writer := NewArrayWriter(&buf)
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.WriteItem(record{}); err == nil {
		t.Error("WriteItem succeeded after Close")
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestArrayWriterMarshalFailureLeavesOutputClean(t *testing.T) {
	var buf bytes.Buffer
	writer := NewArrayWriter(&buf)
	if err := writer.WriteItem(make(chan int)); err == nil {
		t.Fatal("WriteItem accepted an unmarshallable value")
	}
	if buf.Len() != 0 {
		t.Errorf("failed element reached the output: %q", buf.String())
	}
}
