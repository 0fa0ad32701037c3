package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/berwahousing/records-backend/internal/models"
	"github.com/berwahousing/records-backend/migrations"
)

// newTestStore opens an in-memory database with the embedded schema applied.
// MaxOpenConns is pinned to 1: every new connection to :memory: would get
// its own empty database.
func newTestStore(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(":memory:", PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	schema, err := migrations.FS.ReadFile("001_initial_schema.sqlite.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if err := repo.RunMigrations(string(schema)); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return repo
}

func strptr(s string) *string { return &s }

func TestCreateAndGetClient(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	client := &models.Client{
		Name:        "Acme Ltd",
		ContactInfo: "acme@example.com",
		Address:     strptr("12 Hill Road"),
		Notes:       strptr("VIP customer"),
	}
	id, err := repo.CreateClient(ctx, client)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}
	if client.ID != id {
		t.Errorf("client.ID = %d, want %d", client.ID, id)
	}
	if client.CreatedAt.IsZero() || client.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	got, err := repo.GetClient(ctx, id)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if got.Name != "Acme Ltd" || got.ContactInfo != "acme@example.com" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.Address == nil || *got.Address != "12 Hill Road" {
		t.Errorf("address = %v, want 12 Hill Road", got.Address)
	}
	if got.Notes == nil || *got.Notes != "VIP customer" {
		t.Errorf("notes = %v, want VIP customer", got.Notes)
	}
}

func TestCreateClientNullableFields(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	id, err := repo.CreateClient(ctx, &models.Client{Name: "Bongani Dube", ContactInfo: "+250 788 000 111"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	got, err := repo.GetClient(ctx, id)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if got.Address != nil {
		t.Errorf("address = %q, want nil", *got.Address)
	}
	if got.Notes != nil {
		t.Errorf("notes = %q, want nil", *got.Notes)
	}
}

func TestCreateClientValidation(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		client *models.Client
		field  string
	}{
		{"empty name", &models.Client{Name: "", ContactInfo: "x@example.com"}, "name"},
		{"blank name", &models.Client{Name: "   ", ContactInfo: "x@example.com"}, "name"},
		{"empty contact", &models.Client{Name: "Acme", ContactInfo: ""}, "contactInfo"},
		{"blank contact", &models.Client{Name: "Acme", ContactInfo: "\t "}, "contactInfo"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.CreateClient(ctx, tc.client)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}

	// Nothing may have been persisted.
	clients, err := repo.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("got %d rows, want 0", len(clients))
	}
}

func TestGetClientNotFound(t *testing.T) {
	repo := newTestStore(t)

	_, err := repo.GetClient(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListClientsOrder(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zulu", "alpha", "mike"} {
		if _, err := repo.CreateClient(ctx, &models.Client{Name: name, ContactInfo: name + "@example.com"}); err != nil {
			t.Fatalf("CreateClient(%s): %v", name, err)
		}
	}

	clients, err := repo.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 3 {
		t.Fatalf("got %d clients, want 3", len(clients))
	}
	// Insertion order, not alphabetical.
	for i, want := range []string{"zulu", "alpha", "mike"} {
		if clients[i].Name != want {
			t.Errorf("clients[%d].Name = %q, want %q", i, clients[i].Name, want)
		}
	}
}

func TestUpdateClient(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	client := &models.Client{Name: "Acme", ContactInfo: "acme@example.com"}
	id, err := repo.CreateClient(ctx, client)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	created, err := repo.GetClient(ctx, id)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	updated := &models.Client{
		ID:          id,
		Name:        "Acme Holdings",
		ContactInfo: "hello@acme.example.com",
		Notes:       strptr("renamed"),
	}
	if err := repo.UpdateClient(ctx, updated); err != nil {
		t.Fatalf("UpdateClient: %v", err)
	}

	got, err := repo.GetClient(ctx, id)
	if err != nil {
		t.Fatalf("GetClient after update: %v", err)
	}
	if got.Name != "Acme Holdings" {
		t.Errorf("name = %q, want Acme Holdings", got.Name)
	}
	if got.Notes == nil || *got.Notes != "renamed" {
		t.Errorf("notes = %v, want renamed", got.Notes)
	}
	if !got.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updated_at not advanced: %v -> %v", created.UpdatedAt, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at changed: %v -> %v", created.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateClientMissingIDIsNoOp(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	err := repo.UpdateClient(ctx, &models.Client{ID: 42, Name: "Ghost", ContactInfo: "ghost@example.com"})
	if err != nil {
		t.Fatalf("UpdateClient on absent id: %v", err)
	}

	clients, err := repo.ListClients(ctx)
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(clients) != 0 {
		t.Errorf("got %d rows, want 0", len(clients))
	}
}

func TestUpdateClientValidation(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	id, err := repo.CreateClient(ctx, &models.Client{Name: "Acme", ContactInfo: "acme@example.com"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	err = repo.UpdateClient(ctx, &models.Client{ID: id, Name: "", ContactInfo: "acme@example.com"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	got, err := repo.GetClient(ctx, id)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if got.Name != "Acme" {
		t.Errorf("name = %q, record must be unchanged", got.Name)
	}
}

func TestDeleteClient(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	id, err := repo.CreateClient(ctx, &models.Client{Name: "Acme", ContactInfo: "acme@example.com"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if err := repo.DeleteClient(ctx, id); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if _, err := repo.GetClient(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := repo.DeleteClient(ctx, id); err != nil {
		t.Fatalf("second DeleteClient: %v", err)
	}
}

func TestReportEntriesNewestFirst(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	uid, err := repo.CreateUser(ctx, &models.User{
		Username:     "secretary1",
		PasswordHash: "x",
		Email:        "sec@example.com",
		Role:         models.RoleSecretary,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	t1 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	for _, e := range []*models.ReportEntry{
		{UserID: uid, ReportType: "PDF", Details: "Client report with 2 records", GeneratedAt: t1},
		{UserID: uid, ReportType: "Excel", Details: "Client report with 5 records", GeneratedAt: t2},
	} {
		if err := repo.CreateReportEntry(ctx, e); err != nil {
			t.Fatalf("CreateReportEntry: %v", err)
		}
		if e.ID == 0 {
			t.Error("entry id not set")
		}
	}

	entries, err := repo.ListReportEntries(ctx)
	if err != nil {
		t.Fatalf("ListReportEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ReportType != "Excel" || entries[1].ReportType != "PDF" {
		t.Errorf("order = [%s, %s], want newest first", entries[0].ReportType, entries[1].ReportType)
	}
	if entries[0].Username != "secretary1" {
		t.Errorf("username = %q, want secretary1", entries[0].Username)
	}
}

func TestReportEntriesSameInstantTiebreak(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	uid, err := repo.CreateUser(ctx, &models.User{
		Username: "admin1", PasswordHash: "x", Email: "admin@example.com", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	first := &models.ReportEntry{UserID: uid, ReportType: "PDF", Details: "a", GeneratedAt: at}
	second := &models.ReportEntry{UserID: uid, ReportType: "Excel", Details: "b", GeneratedAt: at}
	for _, e := range []*models.ReportEntry{first, second} {
		if err := repo.CreateReportEntry(ctx, e); err != nil {
			t.Fatalf("CreateReportEntry: %v", err)
		}
	}

	entries, err := repo.ListReportEntries(ctx)
	if err != nil {
		t.Fatalf("ListReportEntries: %v", err)
	}
	// Equal timestamps: higher id (later insert) wins.
	if entries[0].ID != second.ID {
		t.Errorf("entries[0].ID = %d, want %d", entries[0].ID, second.ID)
	}
}

func TestCreateReportEntryDefaultsGeneratedAt(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	uid, err := repo.CreateUser(ctx, &models.User{
		Username: "admin2", PasswordHash: "x", Email: "admin2@example.com", Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	entry := &models.ReportEntry{UserID: uid, ReportType: "PDF", Details: "d"}
	if err := repo.CreateReportEntry(ctx, entry); err != nil {
		t.Fatalf("CreateReportEntry: %v", err)
	}
	if entry.GeneratedAt.IsZero() {
		t.Error("generated_at not defaulted")
	}
}

func TestUserLookup(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	uid, err := repo.CreateUser(ctx, &models.User{
		Username: "mary", PasswordHash: "hash", Email: "mary@example.com", Role: models.RoleSecretary,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	byName, err := repo.GetUserByUsername(ctx, "mary")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName.ID != uid || byName.Email != "mary@example.com" {
		t.Errorf("unexpected user: %+v", byName)
	}

	byID, err := repo.GetUserByID(ctx, uid)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if byID.Username != "mary" {
		t.Errorf("username = %q, want mary", byID.Username)
	}

	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetUserByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUserExists(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, &models.User{
		Username: "mary", PasswordHash: "hash", Email: "mary@example.com", Role: models.RoleSecretary,
	}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	cases := []struct {
		username, email string
		want            bool
	}{
		{"mary", "other@example.com", true},
		{"other", "mary@example.com", true},
		{"mary", "mary@example.com", true},
		{"other", "other@example.com", false},
	}
	for _, tc := range cases {
		got, err := repo.UserExists(ctx, tc.username, tc.email)
		if err != nil {
			t.Fatalf("UserExists(%q, %q): %v", tc.username, tc.email, err)
		}
		if got != tc.want {
			t.Errorf("UserExists(%q, %q) = %v, want %v", tc.username, tc.email, got, tc.want)
		}
	}
}
