// Package repositories contains PostgreSQL data access for showcase-engine.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/openfolio/showcase-engine/pkg/apperrors"
	"github.com/openfolio/showcase-engine/pkg/database"
	"github.com/openfolio/showcase-engine/pkg/models"
)

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// List returns projects newest-first. A nil owner returns the full
	// collection; otherwise only that owner's projects.
	List(ctx context.Context, owner *uuid.UUID) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	// UpdateTransform overwrites a single project's pose and refreshes
	// updated_at, touching no other fields. Returns the updated record.
	UpdateTransform(ctx context.Context, id uuid.UUID, position, rotation models.Vec3) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// projectRepository implements ProjectRepository using PostgreSQL.
type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, owner_id, title, description, image, COALESCE(link, ''), technologies, position, rotation, created_at, updated_at`

// Create inserts a new project.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Technologies == nil {
		project.Technologies = []string{}
	}

	position, err := project.Position.EncodeText()
	if err != nil {
		return fmt.Errorf("failed to encode position: %w", err)
	}
	rotation, err := project.Rotation.EncodeText()
	if err != nil {
		return fmt.Errorf("failed to encode rotation: %w", err)
	}

	query := `
		INSERT INTO projects (id, owner_id, title, description, image, link, technologies, position, rotation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11)`

	_, err = r.db.Exec(ctx, query,
		project.ID,
		ownerParam(project.OwnerID),
		project.Title,
		project.Description,
		project.Image,
		project.Link,
		project.Technologies,
		position,
		rotation,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Get retrieves a project by ID.
func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// List retrieves the project collection, optionally scoped to one owner.
func (r *projectRepository) List(ctx context.Context, owner *uuid.UUID) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	args := []any{}
	if owner != nil {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = $1 ORDER BY created_at DESC`
		args = append(args, *owner)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0, 16)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// Update overwrites a project's descriptive fields. The pose columns are the
// transform protocol's territory and are not touched here.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET title = $2, description = $3, image = $4, link = NULLIF($5, ''), technologies = $6, updated_at = $7
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Image,
		project.Link,
		project.Technologies,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateTransform persists a user-driven pose change as a single-row write.
func (r *projectRepository) UpdateTransform(ctx context.Context, id uuid.UUID, position, rotation models.Vec3) (*models.Project, error) {
	positionText, err := position.EncodeText()
	if err != nil {
		return nil, fmt.Errorf("failed to encode position: %w", err)
	}
	rotationText, err := rotation.EncodeText()
	if err != nil {
		return nil, fmt.Errorf("failed to encode rotation: %w", err)
	}

	query := `
		UPDATE projects
		SET position = $2, rotation = $3, updated_at = $4
		WHERE id = $1
		RETURNING ` + projectColumns

	project, err := scanProject(r.db.QueryRow(ctx, query, id, positionText, rotationText, time.Now()))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project transform: %w", err)
	}
	return project, nil
}

// Delete removes a project by ID. Reviews go with it via CASCADE.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanProject reads one project row, decoding the JSON-text transform
// columns with fallback to the zero pose so corrupt rows stay readable.
func scanProject(row pgx.Row) (*models.Project, error) {
	var (
		project  models.Project
		owner    uuid.NullUUID
		position string
		rotation string
	)

	err := row.Scan(
		&project.ID,
		&owner,
		&project.Title,
		&project.Description,
		&project.Image,
		&project.Link,
		&project.Technologies,
		&position,
		&rotation,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if owner.Valid {
		project.OwnerID = owner.UUID
	}
	project.Position = models.DecodeVec3(position)
	project.Rotation = models.DecodeVec3(rotation)
	if project.Technologies == nil {
		project.Technologies = []string{}
	}
	return &project, nil
}

// ownerParam maps the Nil owner (single-tenant mode) to SQL NULL.
func ownerParam(owner uuid.UUID) any {
	if owner == uuid.Nil {
		return nil
	}
	return owner
}
