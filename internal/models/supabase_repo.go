package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	url            string
	key            string
}

func SupabaseNewRepo(supabaseClient *supabase.Client, url, key string) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		url:            url,
		key:            key,
	}
}

func (su *SupabaseRepo) Client() *supabase.Client {
	return su.supabaseClient
}

// GetAuthenticatedClient returns a Supabase client acting with the given
// access token, so row level security applies to the caller.
func (su *SupabaseRepo) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if su.url == "" || su.key == "" {
		return su.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(su.url, su.key, options)
}

// SupabaseRepository stores one entity kind in one PostgREST table.
type SupabaseRepository[T any] struct {
	su    *SupabaseRepo
	table string
}

func NewSupabaseRepository[T any](su *SupabaseRepo, table string) *SupabaseRepository[T] {
	return &SupabaseRepository[T]{su: su, table: table}
}

func (r *SupabaseRepository[T]) Insert(ctx context.Context, rec *T) error {
	_, _, err := r.su.supabaseClient.
		From(r.table).
		Insert(rec, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %v", r.table, err)
	}
	return nil
}

func (r *SupabaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	data, _, err := r.su.supabaseClient.
		From(r.table).
		Select("*", "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %v", r.table, err)
	}

	// Supabase returns an array even for single results
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s rows: %v", r.table, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecord
	}
	return &rows[0], nil
}

func (r *SupabaseRepository[T]) Find(ctx context.Context, filter Filter, order Order) ([]*T, error) {
	query := r.su.supabaseClient.From(r.table).Select("*", "", false)
	for k, v := range filter {
		query = query.Eq(k, fmt.Sprint(v))
	}
	if order.Field != "" {
		query = query.Order(order.Field, &postgrest.OrderOpts{Ascending: !order.Desc})
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %v", r.table, err)
	}

	var rows []*T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s rows: %v", r.table, err)
	}
	return rows, nil
}

func (r *SupabaseRepository[T]) Replace(ctx context.Context, id string, rec *T) error {
	_, count, err := r.su.supabaseClient.
		From(r.table).
		Update(rec, "minimal", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update %s row: %v", r.table, err)
	}
	if count == 0 {
		return ErrNoRecord
	}
	return nil
}

func (r *SupabaseRepository[T]) Delete(ctx context.Context, id string) error {
	_, count, err := r.su.supabaseClient.
		From(r.table).
		Delete("minimal", "exact").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %v", r.table, err)
	}
	if count == 0 {
		return ErrNoRecord
	}
	return nil
}
