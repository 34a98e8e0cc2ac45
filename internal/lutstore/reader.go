package lutstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/MeKo-Tech/noiselut/internal/lut"
)

// ErrNotFound is returned when a requested buffer is not in the store.
var ErrNotFound = errors.New("buffer not found")

// Reader reads lookup buffers from a store.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens a store read-only.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='buffers'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain buffers table")
	}

	return &Reader{db: db, path: path}, nil
}

// ReadBuffer loads one buffer.
func (r *Reader) ReadBuffer(set, name string) (*lut.EncodedBuffer, error) {
	var (
		width             int
		wrap, filter, rng string
		data              []byte
	)
	err := r.db.QueryRow(
		"SELECT width, wrap, filter, value_range, texels FROM buffers WHERE set_name=? AND buffer_name=?",
		set, name,
	).Scan(&width, &wrap, &filter, &rng, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", set, name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query buffer: %w", err)
	}

	texels, err := unpackTexels(data, width)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s/%s: %w", set, name, err)
	}

	return &lut.EncodedBuffer{
		Name:    name,
		Sampler: lut.Sampler{Wrap: lut.WrapMode(wrap), Filter: lut.FilterMode(filter)},
		Range:   lut.Range(rng),
		Texels:  texels,
	}, nil
}

// List returns every stored buffer ordered by set and name.
func (r *Reader) List() ([]BufferInfo, error) {
	rows, err := r.db.Query("SELECT set_name, buffer_name, width, wrap, filter, value_range FROM buffers ORDER BY set_name, buffer_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query buffers: %w", err)
	}
	defer rows.Close()

	var out []BufferInfo
	for rows.Next() {
		var info BufferInfo
		if err := rows.Scan(&info.Set, &info.Name, &info.Width, &info.Wrap, &info.Filter, &info.Range); err != nil {
			return nil, fmt.Errorf("failed to scan buffer row: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buffers: %w", err)
	}
	return out, nil
}

// Metadata reads the store metadata.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metaMap := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	meta := Metadata{
		Name:        metaMap["name"],
		Description: metaMap["description"],
		Version:     metaMap["version"],
		Sampling:    metaMap["sampling"],
	}
	if v, ok := metaMap["octaves"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.Params.Octaves = i
		}
	}
	meta.Params.Lacunarity = parseFloat(metaMap["lacunarity"])
	meta.Params.Gain = parseFloat(metaMap["gain"])
	meta.Params.TimeMultiplier = parseFloat(metaMap["time_multiplier"])

	return meta, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func parseFloat(s string) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0
	}
	return float32(f)
}
