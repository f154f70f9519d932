package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/anastasianlp/georgian-rag/internal/domain"
)

// originalIDField stores the caller-supplied document id on the payload,
// since Qdrant point ids must be a UUID or a positive integer.
const originalIDField = "_original_id"

// Qdrant is the production Store, backed by Qdrant's gRPC API (default port
// 6334). It handles collection bootstrap, point-id/UUID mapping, filtered
// search, id retrieval, scrolling, and payload updates.
type Qdrant struct {
	client     *qdrant.Client
	collection string
	dimension  int
	metric     string
}

// NewQdrant connects to dsn and ensures collection exists with the given
// vector dimension/metric. An API key may be supplied as a query parameter:
// "http://host:6334?api_key=...".
func NewQdrant(dsn, collection string, dimensions int, metric string) (*Qdrant, error) {
	if collection == "" {
		return nil, fmt.Errorf("vectorstore: collection name is required")
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: parse dsn: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := parsed.Port()
	if port == "" {
		port = "6334"
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: invalid port in dsn: %w", err)
	}
	cfg := &qdrant.Config{Host: host, Port: portNum}
	if parsed.Scheme == "https" {
		cfg.UseTLS = true
	}
	if apiKey := parsed.Query().Get("api_key"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create client: %w", err)
	}
	q := &Qdrant{
		client:     client,
		collection: collection,
		dimension:  dimensions,
		metric:     strings.ToLower(strings.TrimSpace(metric)),
	}
	if err := q.ensureCollection(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("vectorstore: ensure collection: %w", err)
	}
	return q, nil
}

func (q *Qdrant) ensureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("check collection exists: %w", err)
	}
	if exists {
		return nil
	}
	var distance qdrant.Distance
	switch q.metric {
	case "l2", "euclidean":
		distance = qdrant.Distance_Euclid
	case "ip", "dot":
		distance = qdrant.Distance_Dot
	case "manhattan":
		distance = qdrant.Distance_Manhattan
	default:
		distance = qdrant.Distance_Cosine
	}
	if q.dimension <= 0 {
		return fmt.Errorf("qdrant requires dimensions > 0")
	}
	return q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dimension),
			Distance: distance,
		}),
	})
}

// Close releases the underlying gRPC connection.
func (q *Qdrant) Close() error { return q.client.Close() }

func pointIDFor(id string) (*qdrant.PointId, string) {
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewIDUUID(id), ""
	}
	generated := uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String()
	return qdrant.NewIDUUID(generated), id
}

func payloadToValueMap(original string, p domain.Payload) map[string]any {
	m := make(map[string]any, len(p)+1)
	for k, v := range p {
		m[k] = v
	}
	if original != "" {
		m[originalIDField] = original
	}
	return m
}

// Upsert writes a single point. Not part of the Store interface (the
// corpus is static at runtime), but kept as the write-path counterpart to
// Search/Retrieve/Scroll for anything that seeds the corpus in tests.
func (q *Qdrant) Upsert(ctx context.Context, id string, vector []float32, payload domain.Payload) error {
	pointID, original := pointIDFor(id)
	vec := make([]float32, len(vector))
	copy(vec, vector)
	point := &qdrant.PointStruct{
		Id:      pointID,
		Vectors: qdrant.NewVectorsDense(vec),
		Payload: qdrant.NewValueMap(payloadToValueMap(original, payload)),
	}
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	return err
}

func (q *Qdrant) Search(ctx context.Context, vector []float32, filter *domain.Filter, limit int, withPayload bool) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	limitU := uint64(limit)
	resp, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          &limitU,
		Filter:         toQdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(withPayload),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: search: %w", err)
	}
	hits := make([]Hit, 0, len(resp))
	for _, sp := range resp {
		id, payload := idAndPayloadFromPoint(sp.GetId(), sp.GetPayload())
		hits = append(hits, Hit{ID: id, Score: float64(sp.GetScore()), Payload: payload})
	}
	return hits, nil
}

func (q *Qdrant) Retrieve(ctx context.Context, ids []string) ([]domain.Document, error) {
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	originals := make(map[string]string, len(ids))
	for _, id := range ids {
		pid, original := pointIDFor(id)
		pointIDs = append(pointIDs, pid)
		if original != "" {
			originals[pid.GetUuid()] = original
		}
	}
	resp, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collection,
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("vectorstore: retrieve: %w", err)
	}
	docs := make([]domain.Document, 0, len(resp))
	for _, rp := range resp {
		id, payload := idAndPayloadFromPoint(rp.GetId(), rp.GetPayload())
		docs = append(docs, domain.Document{ID: id, Payload: payload})
	}
	return docs, nil
}

func (q *Qdrant) Scroll(ctx context.Context, filter *domain.Filter, limit int, offset string) ([]domain.Document, string, error) {
	if limit <= 0 {
		limit = 100
	}
	limitU := uint32(limit)
	req := &qdrant.ScrollPoints{
		CollectionName: q.collection,
		Filter:         toQdrantFilter(filter),
		Limit:          &limitU,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if offset != "" {
		req.Offset = qdrant.NewIDUUID(offset)
	}
	resp, err := q.client.Scroll(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("vectorstore: scroll: %w", err)
	}
	docs := make([]domain.Document, 0, len(resp))
	var next string
	for _, rp := range resp {
		id, payload := idAndPayloadFromPoint(rp.GetId(), rp.GetPayload())
		docs = append(docs, domain.Document{ID: id, Payload: payload})
		next = rp.GetId().GetUuid()
	}
	if len(resp) < limit {
		next = ""
	}
	return docs, next, nil
}

func (q *Qdrant) SetPayload(ctx context.Context, ids []string, payload domain.Payload) error {
	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		pid, _ := pointIDFor(id)
		pointIDs = append(pointIDs, pid)
	}
	m := make(map[string]any, len(payload))
	for k, v := range payload {
		m[k] = v
	}
	_, err := q.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: q.collection,
		Payload:        qdrant.NewValueMap(m),
		PointsSelector: qdrant.NewPointsSelector(pointIDs...),
	})
	return err
}

func idAndPayloadFromPoint(pointID *qdrant.PointId, raw map[string]*qdrant.Value) (string, domain.Payload) {
	uuidStr := pointID.GetUuid()
	payload := make(domain.Payload, len(raw))
	var original string
	for k, v := range raw {
		if k == originalIDField {
			if s, ok := valueToAny(v).(string); ok {
				original = s
			}
			continue
		}
		payload[k] = valueToAny(v)
	}
	id := original
	if id == "" {
		id = uuidStr
	}
	return id, payload
}

func valueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.Kind.(type) {
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_ListValue:
		out := make([]any, len(kind.ListValue.Values))
		for i, item := range kind.ListValue.Values {
			out[i] = valueToAny(item)
		}
		return out
	default:
		return nil
	}
}

// toQdrantFilter translates the domain filter grammar into Qdrant's
// Filter/Condition shape.
func toQdrantFilter(f *domain.Filter) *qdrant.Filter {
	if f == nil {
		return nil
	}
	switch f.Op {
	case domain.FilterOpAnd:
		return &qdrant.Filter{Must: conditionsFor(f.Children)}
	case domain.FilterOpOr:
		return &qdrant.Filter{Should: conditionsFor(f.Children)}
	default:
		if cond := conditionFor(*f); cond != nil {
			return &qdrant.Filter{Must: []*qdrant.Condition{cond}}
		}
		return nil
	}
}

func conditionsFor(filters []domain.Filter) []*qdrant.Condition {
	conds := make([]*qdrant.Condition, 0, len(filters))
	for _, child := range filters {
		switch child.Op {
		case domain.FilterOpAnd, domain.FilterOpOr:
			conds = append(conds, qdrant.NewFilterAsCondition(toQdrantFilter(&child)))
		default:
			if cond := conditionFor(child); cond != nil {
				conds = append(conds, cond)
			}
		}
	}
	return conds
}

func conditionFor(f domain.Filter) *qdrant.Condition {
	switch f.Op {
	case domain.FilterOpEquals:
		return qdrant.NewMatch(f.Field, f.Value)
	case domain.FilterOpMatchAny:
		return qdrant.NewMatchKeywords(f.Field, f.Values...)
	case domain.FilterOpHasID:
		ids := make([]*qdrant.PointId, 0, len(f.Values))
		for _, v := range f.Values {
			pid, _ := pointIDFor(v)
			ids = append(ids, pid)
		}
		return qdrant.NewHasID(ids...)
	default:
		return nil
	}
}
