package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
)

type testItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type testDoc struct {
	Items []testItem `json:"items"`
	Notes []string   `json:"notes"`
}

func (d testDoc) Validate() error {
	if d.Items == nil {
		return NewContractViolation("items", "missing required key")
	}
	for i, it := range d.Items {
		if it.ID == "" {
			return NewContractViolation(fmt.Sprintf("items[%d].id", i), "missing required field")
		}
	}
	return nil
}

func tempStore(t *testing.T, options ...Option[testDoc]) (*Store[testDoc], string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "store-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	path := filepath.Join(tempDir, "test-dataset.json")
	return New(path, options...), path
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := tempStore(t)

	_, err := s.Load(context.Background())
	if err == nil {
		t.Fatalf("expected error loading missing file, got nil")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("expected kind %v, got %v (%v)", KindNotFound, KindOf(err), err)
	}
}

func TestLoadMissingFileFallback(t *testing.T) {
	s, _ := tempStore(t, WithFallback(func() testDoc {
		return testDoc{Items: []testItem{}}
	}))

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("expected fallback document, got error: %v", err)
	}
	if len(doc.Items) != 0 || doc.Items == nil {
		t.Errorf("expected empty fallback document, got %+v", doc)
	}
}

func TestLoadMalformed(t *testing.T) {
	s, path := tempStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := s.Load(context.Background())
	if KindOf(err) != KindMalformedData {
		t.Errorf("expected kind %v, got %v (%v)", KindMalformedData, KindOf(err), err)
	}
}

func TestLoadWrongFieldType(t *testing.T) {
	s, path := tempStore(t)

	// items must be a sequence, not a string.
	if err := os.WriteFile(path, []byte(`{"items": "nope", "notes": []}`), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := s.Load(context.Background())
	if KindOf(err) != KindContractViolation {
		t.Errorf("expected kind %v, got %v (%v)", KindContractViolation, KindOf(err), err)
	}

	var de *Error
	if !errors.As(err, &de) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if de.Field != "items" {
		t.Errorf("expected offending field items, got %q", de.Field)
	}
}

func TestLoadContractViolation(t *testing.T) {
	s, path := tempStore(t)

	if err := os.WriteFile(path, []byte(`{"items": [{"name": "no id"}], "notes": []}`), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := s.Load(context.Background())
	if KindOf(err) != KindContractViolation {
		t.Errorf("expected kind %v, got %v (%v)", KindContractViolation, KindOf(err), err)
	}
}

func TestLoadIdempotent(t *testing.T) {
	s, _ := tempStore(t)

	doc := testDoc{
		Items: []testItem{{ID: "1", Name: "first"}, {ID: "2", Name: "second"}},
		Notes: []string{"a", "b"},
	}
	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	first, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("failed first load: %v", err)
	}
	second, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("failed second load: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("loads differ.\nFirst: %+v\nSecond: %+v", first, second)
	}
	if !reflect.DeepEqual(first, doc) {
		t.Errorf("loaded document does not match saved document.\nExpected: %+v\nGot: %+v", doc, first)
	}
}

func TestSaveFormat(t *testing.T) {
	s, path := tempStore(t)

	doc := testDoc{
		Items: []testItem{{ID: "1", Name: "Café <central> & co"}},
		Notes: []string{},
	}
	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	bs, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	content := string(bs)

	// Two-space indentation on nested keys.
	if !strings.Contains(content, "\n  \"items\"") {
		t.Errorf("expected two-space indented keys, got:\n%s", content)
	}
	// Non-ASCII and HTML characters stay literal.
	if !strings.Contains(content, "Café <central> & co") {
		t.Errorf("expected unescaped text to survive, got:\n%s", content)
	}
	if strings.Contains(content, `\u`) {
		t.Errorf("expected no escape sequences, got:\n%s", content)
	}
	if !strings.HasSuffix(content, "\n") {
		t.Errorf("expected trailing newline")
	}
}

func TestUpdate(t *testing.T) {
	s, _ := tempStore(t)

	if err := s.Save(context.Background(), testDoc{Items: []testItem{}, Notes: []string{}}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	updated, err := s.Update(context.Background(), func(doc testDoc) (testDoc, error) {
		doc.Items = append(doc.Items, testItem{ID: "9", Name: "added"})
		return doc, nil
	})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("expected 1 item in returned document, got %d", len(updated.Items))
	}

	// The change must be visible on reload.
	reloaded, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].ID != "9" {
		t.Errorf("expected persisted item, got %+v", reloaded.Items)
	}
}

func TestUpdateErrorLeavesFileUntouched(t *testing.T) {
	s, path := tempStore(t)

	if err := s.Save(context.Background(), testDoc{Items: []testItem{{ID: "1", Name: "keep"}}, Notes: []string{}}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	_, err = s.Update(context.Background(), func(doc testDoc) (testDoc, error) {
		doc.Items = nil
		return doc, NewInvalidArgument("name", "", "must not be empty")
	})
	if KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid argument error, got %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("backing file changed after failed mutation")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s, _ := tempStore(t)

	if err := s.Save(context.Background(), testDoc{Items: []testItem{}, Notes: []string{}}); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.Update(context.Background(), func(doc testDoc) (testDoc, error) {
				doc.Items = append(doc.Items, testItem{ID: string(rune('a' + n)), Name: "w"})
				return doc, nil
			})
			if err != nil {
				t.Errorf("update failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	// Serialized writers must not lose updates.
	if len(doc.Items) != writers {
		t.Errorf("expected %d items after concurrent updates, got %d", writers, len(doc.Items))
	}
}

func TestMarshalEscaping(t *testing.T) {
	bs, err := Marshal(map[string]string{"city": "São Paulo", "html": "<b>&</b>"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if !strings.Contains(string(bs), "São Paulo") || !strings.Contains(string(bs), "<b>&</b>") {
		t.Errorf("expected literal characters in output, got %s", bs)
	}
}
