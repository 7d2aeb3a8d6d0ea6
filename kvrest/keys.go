package kvrest

import (
	"context"
	"fmt"
	"net/http"
)

// PutValue sends PUT /{bucket}/{key} with value JSON-encoded as the body.
func (c *Client) PutValue(ctx context.Context, bucket, key string, value any) error {
	if err := c.checkNames("bucket", bucket, "key", key); err != nil {
		return err
	}
	_, err := c.Execute(ctx, http.MethodPut, keyPath(bucket, key), value)
	return err
}

// GetValue sends GET /{bucket}/{key} and returns the decoded value.
func (c *Client) GetValue(ctx context.Context, bucket, key string) (Result, error) {
	if err := c.checkNames("bucket", bucket, "key", key); err != nil {
		return Result{}, err
	}
	return c.Execute(ctx, http.MethodGet, keyPath(bucket, key), nil)
}

// GetValueInto fetches a value and decodes it into target.
func (c *Client) GetValueInto(ctx context.Context, bucket, key string, target any) error {
	res, err := c.GetValue(ctx, bucket, key)
	if err != nil {
		return err
	}
	return res.Into(target)
}

// DeleteValue sends DELETE /{bucket}/{key}.
func (c *Client) DeleteValue(ctx context.Context, bucket, key string) error {
	if err := c.checkNames("bucket", bucket, "key", key); err != nil {
		return err
	}
	_, err := c.Execute(ctx, http.MethodDelete, keyPath(bucket, key), nil)
	return err
}

// ListKeys sends GET /{bucket} and returns the decoded listing unchanged.
func (c *Client) ListKeys(ctx context.Context, bucket string) (Result, error) {
	if err := c.checkNames("bucket", bucket); err != nil {
		return Result{}, err
	}
	return c.Execute(ctx, http.MethodGet, bucketPath(bucket), nil)
}

// KeyNames lists a bucket's keys as strings. It accepts a bare JSON array
// or a {"keys": [...]} object.
func (c *Client) KeyNames(ctx context.Context, bucket string) ([]string, error) {
	res, err := c.ListKeys(ctx, bucket)
	if err != nil {
		return nil, err
	}
	return names(res, "keys")
}

func errMissingEnvelope(field string) error {
	return fmt.Errorf("expected a JSON array or an object with %q", field)
}
