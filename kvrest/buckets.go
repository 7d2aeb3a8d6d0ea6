package kvrest

import (
	"context"
	"net/http"
)

// CreateBucket sends PUT /{name}.
func (c *Client) CreateBucket(ctx context.Context, name string) error {
	if err := c.checkNames("bucket", name); err != nil {
		return err
	}
	_, err := c.Execute(ctx, http.MethodPut, bucketPath(name), nil)
	return err
}

// DeleteBucket sends DELETE /{name}.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	if err := c.checkNames("bucket", name); err != nil {
		return err
	}
	_, err := c.Execute(ctx, http.MethodDelete, bucketPath(name), nil)
	return err
}

// ListBuckets sends POST /buckets with no body. The service uses POST here.
// The decoded body is returned unchanged.
func (c *Client) ListBuckets(ctx context.Context) (Result, error) {
	return c.Execute(ctx, http.MethodPost, "/buckets", nil)
}

// BucketNames lists buckets as strings. It accepts a bare JSON array or a
// {"buckets": [...]} object. An empty body yields an empty slice.
func (c *Client) BucketNames(ctx context.Context) ([]string, error) {
	res, err := c.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}
	return names(res, "buckets")
}

// names decodes a listing in either of the shapes the service has used.
func names(res Result, envelope string) ([]string, error) {
	if res.IsEmpty() {
		return []string{}, nil
	}

	var list []string
	if err := res.Into(&list); err == nil {
		return nonNil(list), nil
	}

	var wrapped map[string][]string
	err := res.Into(&wrapped)
	if err != nil {
		return nil, err
	}
	list, ok := wrapped[envelope]
	if !ok {
		return nil, &DecodeError{Raw: res.Raw, Err: errMissingEnvelope(envelope)}
	}
	return nonNil(list), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
