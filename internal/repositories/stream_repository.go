package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/TanishqPratap/content-oasis-app/internal/models"
)

var (
	ErrStreamNotFound    = errors.New("live stream not found")
	ErrInvalidTransition = errors.New("invalid stream status transition")
	ErrViewerNotInStream = errors.New("viewer has no open record for stream")
	ErrStreamNotLive     = errors.New("stream is not live")
	ErrAlreadyInStream   = errors.New("viewer already joined stream")
)

const streamColumns = `id, creator_id, title, description, status, stream_key, started_at, ended_at, viewer_count, created_at`

// StreamRepository abstracts live stream and viewer presence persistence.
// The viewer_count column is only ever moved by in-database arithmetic so
// concurrent joins and leaves cannot lose updates.
type StreamRepository interface {
	CreateStream(ctx context.Context, creatorID, title string, description *string) (models.LiveStream, error)
	GetStream(ctx context.Context, streamID string) (models.LiveStream, error)
	ListStreamsForCreator(ctx context.Context, creatorID string) ([]models.LiveStream, error)
	ListLiveStreams(ctx context.Context) ([]models.LiveStream, error)
	StartStream(ctx context.Context, streamID, creatorID string) (models.LiveStream, error)
	EndStream(ctx context.Context, streamID, creatorID string) (models.LiveStream, error)
	JoinStream(ctx context.Context, streamID, viewerID string) (models.LiveStream, error)
	LeaveStream(ctx context.Context, streamID, viewerID string) (models.LiveStream, error)
}

// StreamRepo is a sqlx implementation of StreamRepository.
type StreamRepo struct {
	db *sqlx.DB
}

// NewStreamRepo constructs a StreamRepo.
func NewStreamRepo(db *sqlx.DB) *StreamRepo {
	return &StreamRepo{db: db}
}

// CreateStream inserts an offline stream; the opaque stream key is generated
// by the database.
func (r *StreamRepo) CreateStream(ctx context.Context, creatorID, title string, description *string) (models.LiveStream, error) {
	var stream models.LiveStream
	query := `INSERT INTO live_streams (creator_id, title, description) VALUES ($1, $2, $3)
        RETURNING ` + streamColumns
	err := r.db.GetContext(ctx, &stream, query, creatorID, title, description)
	return stream, err
}

// GetStream fetches a stream by id.
func (r *StreamRepo) GetStream(ctx context.Context, streamID string) (models.LiveStream, error) {
	var stream models.LiveStream
	err := r.db.GetContext(ctx, &stream, `SELECT `+streamColumns+` FROM live_streams WHERE id=$1`, streamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LiveStream{}, ErrStreamNotFound
	}
	return stream, err
}

// ListStreamsForCreator returns a creator's streams, newest first.
func (r *StreamRepo) ListStreamsForCreator(ctx context.Context, creatorID string) ([]models.LiveStream, error) {
	var streams []models.LiveStream
	query := `SELECT ` + streamColumns + ` FROM live_streams WHERE creator_id=$1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &streams, query, creatorID)
	return streams, err
}

// ListLiveStreams returns every currently live stream, most recently started
// first.
func (r *StreamRepo) ListLiveStreams(ctx context.Context) ([]models.LiveStream, error) {
	var streams []models.LiveStream
	query := `SELECT ` + streamColumns + ` FROM live_streams WHERE status='live' ORDER BY started_at DESC`
	err := r.db.SelectContext(ctx, &streams, query)
	return streams, err
}

// StartStream moves the stream from offline to live and stamps started_at.
// Any other source state is rejected; an ended stream cannot be revived.
func (r *StreamRepo) StartStream(ctx context.Context, streamID, creatorID string) (models.LiveStream, error) {
	var stream models.LiveStream
	query := `UPDATE live_streams SET status='live', started_at=NOW()
        WHERE id=$1 AND creator_id=$2 AND status='offline'
        RETURNING ` + streamColumns
	err := r.db.GetContext(ctx, &stream, query, streamID, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return r.transitionFailure(ctx, streamID)
	}
	return stream, err
}

// EndStream moves the stream from live to ended and stamps ended_at. Ending
// is terminal for the entity.
func (r *StreamRepo) EndStream(ctx context.Context, streamID, creatorID string) (models.LiveStream, error) {
	var stream models.LiveStream
	query := `UPDATE live_streams SET status='ended', ended_at=NOW()
        WHERE id=$1 AND creator_id=$2 AND status='live'
        RETURNING ` + streamColumns
	err := r.db.GetContext(ctx, &stream, query, streamID, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return r.transitionFailure(ctx, streamID)
	}
	return stream, err
}

func (r *StreamRepo) transitionFailure(ctx context.Context, streamID string) (models.LiveStream, error) {
	if _, err := r.GetStream(ctx, streamID); err != nil {
		return models.LiveStream{}, err
	}
	return models.LiveStream{}, ErrInvalidTransition
}

// JoinStream records an open viewer row and bumps viewer_count by one in the
// same transaction. A viewer with an existing open row is a no-op reported
// as ErrAlreadyInStream so the caller does not double-count.
func (r *StreamRepo) JoinStream(ctx context.Context, streamID, viewerID string) (models.LiveStream, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.LiveStream{}, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM stream_viewers WHERE stream_id=$1 AND viewer_id=$2 AND left_at IS NULL)`,
		streamID, viewerID)
	if err != nil {
		return models.LiveStream{}, err
	}
	if exists {
		return models.LiveStream{}, ErrAlreadyInStream
	}

	// The unique partial index on open viewer rows backstops the check
	// above: a racing join loses the insert rather than double-counting.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stream_viewers (stream_id, viewer_id) VALUES ($1, $2)`,
		streamID, viewerID); err != nil {
		if isUniqueViolation(err) {
			return models.LiveStream{}, ErrAlreadyInStream
		}
		return models.LiveStream{}, err
	}

	var stream models.LiveStream
	query := `UPDATE live_streams SET viewer_count = viewer_count + 1
        WHERE id=$1 AND status='live'
        RETURNING ` + streamColumns
	err = tx.GetContext(ctx, &stream, query, streamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LiveStream{}, ErrStreamNotLive
	}
	if err != nil {
		return models.LiveStream{}, err
	}

	return stream, tx.Commit()
}

// LeaveStream closes the viewer's open row and decrements viewer_count,
// clamped at zero so a racing duplicate leave can never drive it negative.
func (r *StreamRepo) LeaveStream(ctx context.Context, streamID, viewerID string) (models.LiveStream, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.LiveStream{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE stream_viewers SET left_at = NOW() WHERE stream_id=$1 AND viewer_id=$2 AND left_at IS NULL`,
		streamID, viewerID)
	if err != nil {
		return models.LiveStream{}, err
	}
	closed, err := res.RowsAffected()
	if err != nil {
		return models.LiveStream{}, err
	}
	if closed == 0 {
		return models.LiveStream{}, ErrViewerNotInStream
	}

	var stream models.LiveStream
	query := `UPDATE live_streams SET viewer_count = GREATEST(viewer_count - 1, 0)
        WHERE id=$1
        RETURNING ` + streamColumns
	err = tx.GetContext(ctx, &stream, query, streamID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LiveStream{}, ErrStreamNotFound
	}
	if err != nil {
		return models.LiveStream{}, err
	}

	return stream, tx.Commit()
}
