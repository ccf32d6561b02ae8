package persistence

import (
	"context"
	"time"

	"socialgraph/backend/internal/graph"
	"socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jStore keeps the graph as nodes and relationships: one SocialAccount
// node per account, one SocialContent node per item with AUTHORED,
// REPLY_TO and ENDORSES relationships, and a single SocialSnapshot node
// carrying the id counters. Each save replaces the previous state in one
// write transaction.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// OpenNeo4j connects to Neo4j and verifies connectivity
func OpenNeo4j(ctx context.Context, uri, user, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.NewPersistenceFailure("create neo4j driver", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, errors.NewPersistenceFailure("verify neo4j connectivity", err)
	}
	store := NewNeo4jStore(driver)
	if err := store.EnsureSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}
	return store, nil
}

// schemaStatements are idempotent; they run on every connect
var schemaStatements = []string{
	"CREATE CONSTRAINT social_account_id_unique IF NOT EXISTS FOR (a:SocialAccount) REQUIRE a.id IS UNIQUE",
	"CREATE CONSTRAINT social_account_handle_unique IF NOT EXISTS FOR (a:SocialAccount) REQUIRE a.handle IS UNIQUE",
	"CREATE CONSTRAINT social_content_id_unique IF NOT EXISTS FOR (c:SocialContent) REQUIRE c.id IS UNIQUE",
	"CREATE INDEX social_content_kind IF NOT EXISTS FOR (c:SocialContent) ON (c.kind)",
}

// EnsureSchema creates the uniqueness constraints and indexes the store
// relies on
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		result, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return errors.NewPersistenceFailure("apply neo4j schema", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return errors.NewPersistenceFailure("apply neo4j schema", err)
		}
	}
	s.logger.Debug("Neo4j schema ensured", zap.Int("statements", len(schemaStatements)))
	return nil
}

// NewNeo4jStore wraps an existing driver
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{
		driver: driver,
		logger: logger.Named("persistence.neo4j"),
	}
}

func (s *Neo4jStore) Name() string { return "neo4j" }

// Close closes the Neo4j driver connection
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

const (
	clearQuery = `
		MATCH (n)
		WHERE n:SocialSnapshot OR n:SocialAccount OR n:SocialContent
		DETACH DELETE n
	`

	snapshotQuery = `
		CREATE (:SocialSnapshot {
			id: $id,
			version: $version,
			saved_at: $savedAt,
			last_account_id: $lastAccountID,
			last_content_id: $lastContentID
		})
	`

	accountsQuery = `
		UNWIND $accounts AS a
		CREATE (:SocialAccount {
			id: a.id,
			handle: a.handle,
			description: a.description,
			post_count: a.post_count,
			endorsement_count: a.endorsement_count
		})
	`

	itemsQuery = `
		UNWIND $items AS i
		CREATE (:SocialContent {
			id: i.id,
			kind: i.kind,
			author_id: i.author_id,
			author_handle: i.author_handle,
			message: i.message,
			parent_id: i.parent_id,
			target_id: i.target_id,
			replaced: i.replaced
		})
	`

	authoredQuery = `
		MATCH (a:SocialAccount), (c:SocialContent)
		WHERE c.author_id = a.id
		CREATE (a)-[:AUTHORED]->(c)
	`

	repliesQuery = `
		MATCH (c:SocialContent), (p:SocialContent)
		WHERE c.parent_id > 0 AND c.parent_id = p.id
		CREATE (c)-[:REPLY_TO]->(p)
	`

	endorsesQuery = `
		MATCH (e:SocialContent), (t:SocialContent)
		WHERE e.target_id > 0 AND e.target_id = t.id
		CREATE (e)-[:ENDORSES]->(t)
	`
)

// Save replaces the stored graph with snap
func (s *Neo4jStore) Save(ctx context.Context, snap *graph.Snapshot) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	steps := []struct {
		query  string
		params map[string]interface{}
	}{
		{clearQuery, nil},
		{snapshotQuery, snapshotParams(snap)},
		{accountsQuery, map[string]interface{}{"accounts": accountParams(snap.Accounts)}},
		{itemsQuery, map[string]interface{}{"items": itemParams(snap.Items)}},
		{authoredQuery, nil},
		{repliesQuery, nil},
		{endorsesQuery, nil},
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		for _, step := range steps {
			result, err := tx.Run(ctx, step.query, step.params)
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.NewPersistenceFailure("save snapshot to neo4j", err)
	}

	s.logger.Info("Snapshot saved",
		zap.String("snapshot_id", snap.ID),
		zap.Int("accounts", len(snap.Accounts)),
		zap.Int("items", len(snap.Items)),
	)
	return nil
}

// Load reads the stored graph back into a snapshot
func (s *Neo4jStore) Load(ctx context.Context) (*graph.Snapshot, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		meta, err := tx.Run(ctx, `
			MATCH (s:SocialSnapshot)
			RETURN s.id AS id, s.version AS version, s.saved_at AS saved_at,
			       s.last_account_id AS last_account_id, s.last_content_id AS last_content_id
		`, nil)
		if err != nil {
			return nil, err
		}
		if !meta.Next(ctx) {
			if err := meta.Err(); err != nil {
				return nil, err
			}
			return nil, ErrNoSnapshot
		}
		snap := snapshotFromRecord(meta.Record())

		accounts, err := tx.Run(ctx, `
			MATCH (a:SocialAccount)
			RETURN a.id AS id, a.handle AS handle, a.description AS description,
			       a.post_count AS post_count, a.endorsement_count AS endorsement_count
			ORDER BY a.id
		`, nil)
		if err != nil {
			return nil, err
		}
		records, err := accounts.Collect(ctx)
		if err != nil {
			return nil, err
		}
		snap.Accounts = make([]graph.Account, 0, len(records))
		for _, record := range records {
			snap.Accounts = append(snap.Accounts, accountFromRecord(record))
		}

		items, err := tx.Run(ctx, `
			MATCH (c:SocialContent)
			RETURN c.id AS id, c.kind AS kind, c.author_id AS author_id,
			       c.author_handle AS author_handle, c.message AS message,
			       c.parent_id AS parent_id, c.target_id AS target_id, c.replaced AS replaced
			ORDER BY c.id
		`, nil)
		if err != nil {
			return nil, err
		}
		records, err = items.Collect(ctx)
		if err != nil {
			return nil, err
		}
		snap.Items = make([]graph.Item, 0, len(records))
		for _, record := range records {
			snap.Items = append(snap.Items, itemFromRecord(record))
		}
		return snap, nil
	})
	if err != nil {
		return nil, errors.NewPersistenceFailure("load snapshot from neo4j", err)
	}

	snap := result.(*graph.Snapshot)
	s.logger.Debug("Snapshot read",
		zap.String("snapshot_id", snap.ID),
		zap.Int("accounts", len(snap.Accounts)),
		zap.Int("items", len(snap.Items)),
	)
	return snap, nil
}

func snapshotParams(snap *graph.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		"id":            snap.ID,
		"version":       int64(snap.Version),
		"savedAt":       snap.SavedAt.UTC().Format(time.RFC3339Nano),
		"lastAccountID": int64(snap.LastAccountID),
		"lastContentID": int64(snap.LastContentID),
	}
}

func accountParams(accounts []graph.Account) []interface{} {
	out := make([]interface{}, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, map[string]interface{}{
			"id":                int64(a.ID),
			"handle":            a.Handle,
			"description":       a.Description,
			"post_count":        int64(a.PostCount),
			"endorsement_count": int64(a.EndorsementCount),
		})
	}
	return out
}

func itemParams(items []graph.Item) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, i := range items {
		out = append(out, map[string]interface{}{
			"id":            int64(i.ID),
			"kind":          string(i.Kind),
			"author_id":     int64(i.AuthorID),
			"author_handle": i.AuthorHandle,
			"message":       i.Message,
			"parent_id":     int64(i.ParentID),
			"target_id":     int64(i.TargetID),
			"replaced":      string(i.Replaced),
		})
	}
	return out
}

func snapshotFromRecord(record *neo4j.Record) *graph.Snapshot {
	return &graph.Snapshot{
		ID:            getStringFromRecord(record, "id"),
		Version:       getIntFromRecord(record, "version"),
		SavedAt:       getTimeFromRecord(record, "saved_at"),
		LastAccountID: getIntFromRecord(record, "last_account_id"),
		LastContentID: getIntFromRecord(record, "last_content_id"),
	}
}

func accountFromRecord(record *neo4j.Record) graph.Account {
	return graph.Account{
		ID:               getIntFromRecord(record, "id"),
		Handle:           getStringFromRecord(record, "handle"),
		Description:      getStringFromRecord(record, "description"),
		PostCount:        getIntFromRecord(record, "post_count"),
		EndorsementCount: getIntFromRecord(record, "endorsement_count"),
	}
}

func itemFromRecord(record *neo4j.Record) graph.Item {
	return graph.Item{
		ID:           getIntFromRecord(record, "id"),
		Kind:         graph.Kind(getStringFromRecord(record, "kind")),
		AuthorID:     getIntFromRecord(record, "author_id"),
		AuthorHandle: getStringFromRecord(record, "author_handle"),
		Message:      getStringFromRecord(record, "message"),
		ParentID:     getIntFromRecord(record, "parent_id"),
		TargetID:     getIntFromRecord(record, "target_id"),
		Replaced:     graph.Kind(getStringFromRecord(record, "replaced")),
	}
}
