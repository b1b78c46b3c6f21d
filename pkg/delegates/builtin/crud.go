package builtin

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/joeydtaylor/trifle/pkg/controller"
	"github.com/joeydtaylor/trifle/pkg/delegate"
	"github.com/joeydtaylor/trifle/pkg/store"
)

var ErrNoStore = errors.New("crud: no store on host")

// Crud serves index/show/save/destroy over the host's record store. The
// collection is the host name unless the host sets controller.KeyCollection.
type Crud struct {
	delegate.Base
}

func NewCrud() *Crud {
	c := &Crud{}
	c.Declare(nil, delegate.Operations{
		"indexAction":   c.index,
		"showAction":    c.show,
		"saveAction":    c.save,
		"destroyAction": c.destroy,
	})
	return c
}

func (c *Crud) index(ctx context.Context, _ ...any) (any, error) {
	s, coll, err := c.target()
	if err != nil {
		return nil, err
	}
	recs, err := s.List(ctx, coll)
	if err != nil {
		return nil, err
	}
	c.assign("records", recs)
	return recs, nil
}

func (c *Crud) show(ctx context.Context, args ...any) (any, error) {
	s, coll, err := c.target()
	if err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, coll, argString(args, 0))
	if err != nil {
		return nil, err
	}
	c.assign("record", rec)
	return rec, nil
}

// save upserts the record named by the first argument with the host's
// request parameters as fields.
func (c *Crud) save(ctx context.Context, args ...any) (any, error) {
	s, coll, err := c.target()
	if err != nil {
		return nil, err
	}
	rec := store.Record{ID: argString(args, 0), Fields: map[string]string{}}
	if raw, ok := c.Get(controller.KeyParams); ok {
		if params, ok := raw.(url.Values); ok {
			for k := range params {
				rec.Fields[k] = params.Get(k)
			}
		}
	}
	if err := s.Put(ctx, coll, rec); err != nil {
		return nil, err
	}
	c.assign("record", rec)
	return rec, nil
}

func (c *Crud) destroy(ctx context.Context, args ...any) (any, error) {
	s, coll, err := c.target()
	if err != nil {
		return nil, err
	}
	id := argString(args, 0)
	if err := s.Delete(ctx, coll, id); err != nil {
		return nil, err
	}
	c.assign("deleted", id)
	return nil, nil
}

func (c *Crud) target() (store.Store, string, error) {
	raw, ok := c.Get(controller.KeyStore)
	if !ok {
		return nil, "", ErrNoStore
	}
	s, ok := raw.(store.Store)
	if !ok || s == nil {
		return nil, "", fmt.Errorf("%w: got %T", ErrNoStore, raw)
	}
	coll := c.Host().Name()
	if v, ok := c.Get(controller.KeyCollection); ok {
		if name, ok := v.(string); ok && name != "" {
			coll = name
		}
	}
	return s, coll, nil
}

func (c *Crud) assign(key string, value any) {
	if v := c.View(); v != nil {
		v.Assign(key, value)
	}
}
