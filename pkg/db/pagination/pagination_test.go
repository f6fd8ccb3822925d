package pagination

import "testing"

type row struct{ id string }

func TestTrimReportsMorePages(t *testing.T) {
	rows := []row{{"5"}, {"4"}, {"3"}, {"2"}}

	kept, info := Trim(rows, 3, func(r row) string { return r.id })
	if len(kept) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(kept))
	}
	if !info.HasMore {
		t.Fatal("expected more pages")
	}

	cursor, err := DecodeCursor(info.NextPageToken)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	if cursor.ID != "3" {
		t.Fatalf("expected cursor at last kept row, got %q", cursor.ID)
	}
}

func TestTrimLastPage(t *testing.T) {
	rows := []row{{"2"}, {"1"}}

	kept, info := Trim(rows, 3, func(r row) string { return r.id })
	if len(kept) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(kept))
	}
	if info.HasMore {
		t.Fatal("expected no more pages")
	}
	if info.NextPageToken != "" {
		t.Fatalf("expected empty token, got %q", info.NextPageToken)
	}
}

func TestTrimZeroLimitReturnsEverything(t *testing.T) {
	rows := []row{{"3"}, {"2"}, {"1"}}

	kept, info := Trim(rows, 0, func(r row) string { return r.id })
	if len(kept) != 3 {
		t.Fatalf("expected all rows, got %d", len(kept))
	}
	if info.HasMore {
		t.Fatal("expected no more pages")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "1234567890"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cursor, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.ID != "1234567890" {
		t.Fatalf("cursor id mismatch: %q", cursor.ID)
	}

	if _, err := DecodeCursor("not base64!!"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
