package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	esv7 "github.com/elastic/go-elasticsearch/v7"
	esv7api "github.com/elastic/go-elasticsearch/v7/esapi"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/taskplanner-api/internal"
)

const otelName = "github.com/sanLimbu/taskplanner-api/internal/elasticsearch"

// Task represents the repository used for searching Task records.
type Task struct {
	client *esv7.Client
	index  string
}

type indexedTask struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      internal.Status   `json:"status"`
	Priority    internal.Priority `json:"priority"`
	DateStart   int64             `json:"date_start"`
	DateEnd     int64             `json:"date_end"`
}

// NewTask instantiates the Task repository.
func NewTask(client *esv7.Client) *Task {
	return &Task{
		client: client,
		index:  "tasks",
	}
}

// Index creates or updates a task in the index.
func (t *Task) Index(ctx context.Context, task internal.Task) error {
	defer newOTELSpan(ctx, "Task.Index").End()

	body := indexedTask{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DateStart:   task.Dates.Start.UnixNano(),
		DateEnd:     task.Dates.End.UnixNano(),
	}

	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewEncoder.Encode")
	}

	req := esv7api.IndexRequest{
		Index:      t.index,
		Body:       &buf,
		DocumentID: task.ID,
		Refresh:    "true",
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "IndexRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return internal.NewErrorf(internal.ErrorCodeUnknown, "IndexRequest.Do %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)

	return nil
}

// Delete removes a task from the index.
func (t *Task) Delete(ctx context.Context, id string) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	req := esv7api.DeleteRequest{
		Index:      t.index,
		DocumentID: id,
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeNotFound, "DeleteRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return internal.NewErrorf(internal.ErrorCodeUnknown, "DeleteRequest.Do %d", resp.StatusCode)
	}

	io.Copy(io.Discard, resp.Body)

	return nil
}

// Search returns the caller's tasks matching the received values. Every query
// is fenced to args.UserID so one user can never see another's records.
func (t *Task) Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	defer newOTELSpan(ctx, "Task.Search").End()

	if args.IsZero() {
		return internal.SearchResults{}, nil
	}

	should := make([]interface{}, 0, 4)

	if args.Title != nil {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{
				"title": *args.Title,
			},
		})
	}

	if args.Description != nil {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{
				"description": *args.Description,
			},
		})
	}

	if args.Priority != nil {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{
				"priority": *args.Priority,
			},
		})
	}

	if args.Status != nil {
		should = append(should, map[string]interface{}{
			"match": map[string]interface{}{
				"status": *args.Status,
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{
							"user_id": args.UserID,
						},
					},
				},
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"id": "asc"},
		},
		"from": args.From,
		"size": args.Size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewEncoder.Encode")
	}

	req := esv7api.SearchRequest{
		Index: []string{t.index},
		Body:  &buf,
	}

	resp, err := req.Do(ctx, t.client)
	if err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "SearchRequest.Do")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return internal.SearchResults{}, internal.NewErrorf(internal.ErrorCodeUnknown, "SearchRequest.Do %d", resp.StatusCode)
	}

	var hits struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source indexedTask `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.NewDecoder.Decode")
	}

	res := make([]internal.Task, len(hits.Hits.Hits))

	for i, hit := range hits.Hits.Hits {
		res[i].ID = hit.Source.ID
		res[i].UserID = hit.Source.UserID
		res[i].Title = hit.Source.Title
		res[i].Description = hit.Source.Description
		res[i].Status = hit.Source.Status
		res[i].Priority = hit.Source.Priority
		res[i].Dates.Start = time.Unix(0, hit.Source.DateStart).UTC()
		res[i].Dates.End = time.Unix(0, hit.Source.DateEnd).UTC()
	}

	return internal.SearchResults{
		Tasks: res,
		Total: hits.Hits.Total.Value,
	}, nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemElasticsearch)

	return span
}
