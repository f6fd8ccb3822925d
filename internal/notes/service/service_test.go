package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	casedomain "github.com/retentionops/portal/internal/cases/domain"
	caserepository "github.com/retentionops/portal/internal/cases/repository"
	notedomain "github.com/retentionops/portal/internal/notes/domain"
	noterepository "github.com/retentionops/portal/internal/notes/repository"
	"github.com/retentionops/portal/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc  notedomain.Service
	db   *gorm.DB
	node *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&casedomain.Case{}, &notedomain.LeadNote{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := New(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     noterepository.Provide(),
		CaseRepo: caserepository.Provide(),
	})

	return &fixture{svc: svc, db: dbConn, node: node}
}

func (f *fixture) newCase(t *testing.T) *casedomain.Case {
	t.Helper()
	c := &casedomain.Case{
		ID:         f.node.Generate(),
		ClientName: "Pat Li",
		Status:     casedomain.StatusNew,
	}
	if err := f.db.Create(c).Error; err != nil {
		t.Fatalf("failed to create case: %v", err)
	}
	return c
}

func TestCreateRequiresContent(t *testing.T) {
	f := newFixture(t)
	lead := f.newCase(t)

	_, err := f.svc.Create(context.Background(), notedomain.CreateRequest{
		LeadID:  lead.ID,
		AgentID: f.node.Generate(),
		Content: "   ",
	})
	if err != notedomain.ErrMissingContent {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}

	var count int64
	if err := f.db.Model(&notedomain.LeadNote{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected note must not be written, found %d rows", count)
	}
}

func TestCreateDefaultsNoteType(t *testing.T) {
	f := newFixture(t)
	lead := f.newCase(t)

	note, err := f.svc.Create(context.Background(), notedomain.CreateRequest{
		LeadID:  lead.ID,
		AgentID: f.node.Generate(),
		Content: "left voicemail, call back tomorrow",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if note.NoteType != notedomain.DefaultNoteType {
		t.Fatalf("expected note_type %s, got %s", notedomain.DefaultNoteType, note.NoteType)
	}
}

func TestCreateRejectsMissingCase(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), notedomain.CreateRequest{
		LeadID:  f.node.Generate(),
		AgentID: f.node.Generate(),
		Content: "orphan note",
	})
	if err != casedomain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByLeadNewestFirst(t *testing.T) {
	f := newFixture(t)
	lead := f.newCase(t)
	agentID := f.node.Generate()

	for _, content := range []string{"first", "second"} {
		if _, err := f.svc.Create(context.Background(), notedomain.CreateRequest{
			LeadID:  lead.ID,
			AgentID: agentID,
			Content: content,
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	notes, err := f.svc.ListByLead(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}

	if _, err := f.svc.ListByLead(context.Background(), 0); err != notedomain.ErrMissingLead {
		t.Fatalf("expected ErrMissingLead, got %v", err)
	}
}
