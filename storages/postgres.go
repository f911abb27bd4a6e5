package storages

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/reusee/arcflow/projects"
)

// Postgres stores documents as jsonb rows keyed by kind and id.
type Postgres struct {
	db    *sql.DB
	table string
}

var _ Storage = new(Postgres)

const DefaultTable = "arcflow_documents"

func OpenPostgres(ctx context.Context, dsn string, table string) (*Postgres, error) {
	if table == "" {
		table = DefaultTable
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &Error{Op: "open", Err: err}
	}
	ret := &Postgres{
		db:    db,
		table: pq.QuoteIdentifier(table),
	}
	if err := ret.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return ret, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return &Error{Op: "open", Err: err}
	}
	if _, err := p.db.ExecContext(ctx, `create table if not exists `+p.table+` (
		kind text not null,
		id text not null,
		body jsonb not null,
		updated_at timestamptz not null default now(),
		primary key (kind, id)
	)`); err != nil {
		return &Error{Op: "migrate", Err: describe(err)}
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// describe adds the postgres error code name.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (%s)", err, pqErr.Code.Name())
	}
	return err
}

func pgGet[T any](
	ctx context.Context,
	p *Postgres,
	kind Kind,
	id string,
	decode func([]byte, projects.Format) (*T, error),
) (*T, error) {
	op := "get " + string(kind)
	var body []byte
	err := p.db.QueryRowContext(ctx,
		`select body from `+p.table+` where kind = $1 and id = $2`,
		string(kind), id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Kind: kind, ID: id}
	}
	if err != nil {
		return nil, &Error{Op: op, Err: describe(err)}
	}
	ret, err := decode(body, projects.FormatJSON)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return ret, nil
}

func (p *Postgres) put(ctx context.Context, kind Kind, id string, value any) error {
	op := "update " + string(kind)
	body, err := json.Marshal(value)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	err = withTx(ctx, p.db, func(tx Tx) error {
		_, err := tx.Exec(ctx, `insert into `+p.table+` (kind, id, body) values ($1, $2, $3)
			on conflict (kind, id) do update set body = excluded.body, updated_at = now()`,
			string(kind), id, string(body),
		)
		return err
	})
	if err != nil {
		return &Error{Op: op, Err: describe(err)}
	}
	return nil
}

func (p *Postgres) ids(ctx context.Context, kind Kind) (ret []string, err error) {
	op := "list " + string(kind)
	err = withTx(ctx, p.db, func(tx Tx) error {
		rows, err := tx.Query(ctx, `select id from `+p.table+` where kind = $1 order by id`, string(kind))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ret = append(ret, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, &Error{Op: op, Err: describe(err)}
	}
	return
}

func (p *Postgres) GetProject(ctx context.Context, id string) (*projects.Project, error) {
	return pgGet(ctx, p, KindProject, id, projects.DecodeProject)
}

func (p *Postgres) GetScene(ctx context.Context, id string) (*projects.Scene, error) {
	return pgGet(ctx, p, KindScene, id, projects.DecodeScene)
}

func (p *Postgres) GetObjectType(ctx context.Context, id string) (*projects.ObjectType, error) {
	return pgGet(ctx, p, KindObjectType, id, projects.DecodeObjectType)
}

func (p *Postgres) GetProjectSources(ctx context.Context, id string) (*projects.ProjectSources, error) {
	return pgGet(ctx, p, KindProjectSources, id, projects.DecodeProjectSources)
}

func (p *Postgres) GetModel(ctx context.Context, id string, modelType projects.ModelType) (*projects.ObjectModel, error) {
	model, err := pgGet(ctx, p, KindModel, id, projects.DecodeObjectModel)
	if err != nil {
		return nil, err
	}
	return modelOfType(model, id, modelType)
}

func (p *Postgres) ProjectIDs(ctx context.Context) ([]string, error) {
	return p.ids(ctx, KindProject)
}

func (p *Postgres) ObjectTypeIDs(ctx context.Context) ([]string, error) {
	return p.ids(ctx, KindObjectType)
}

func (p *Postgres) UpdateProject(ctx context.Context, project *projects.Project) error {
	return p.put(ctx, KindProject, project.ID, project)
}

func (p *Postgres) UpdateScene(ctx context.Context, scene *projects.Scene) error {
	return p.put(ctx, KindScene, scene.ID, scene)
}

func (p *Postgres) UpdateObjectType(ctx context.Context, objectType *projects.ObjectType) error {
	return p.put(ctx, KindObjectType, objectType.ID, objectType)
}

func (p *Postgres) UpdateProjectSources(ctx context.Context, sources *projects.ProjectSources) error {
	return p.put(ctx, KindProjectSources, sources.ID, sources)
}

func (p *Postgres) UpdateModel(ctx context.Context, model *projects.ObjectModel) error {
	return p.put(ctx, KindModel, model.ID(), model)
}
