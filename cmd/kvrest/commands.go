package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/kbukum/kvrest/bootstrap"
	"github.com/kbukum/kvrest/kvrest"
)

const demoBucket = "my-test-bucket"

// env is what a command sees while it runs.
type env struct {
	app    *bootstrap.App[*Settings]
	client *kvrest.Client
	admin  *kvrest.AdminClient
	flags  *pflag.FlagSet
	args   []string
	out    io.Writer
}

type clientKind int

const (
	needsClient clientKind = iota
	needsAdmin
	needsNothing
)

type command struct {
	name    string
	args    []string
	summary string
	kind    clientKind
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, e *env) error
}

func (c command) usage() string {
	u := c.name
	for _, a := range c.args {
		u += " <" + a + ">"
	}
	return u
}

var commands = []command{
	{name: "create-bucket", args: []string{"bucket"}, summary: "create a bucket", run: runCreateBucket},
	{name: "delete-bucket", args: []string{"bucket"}, summary: "delete a bucket", run: runDeleteBucket},
	{name: "buckets", summary: "list buckets", run: runBuckets},
	{name: "put", args: []string{"bucket", "key", "json"}, summary: "store a JSON value", run: runPut},
	{name: "get", args: []string{"bucket", "key"}, summary: "fetch a value", run: runGet},
	{name: "delete", args: []string{"bucket", "key"}, summary: "delete a key", run: runDelete},
	{name: "keys", args: []string{"bucket"}, summary: "list keys in a bucket", run: runKeys},
	{
		name:    "demo",
		summary: "run the create/put/get/list/delete walkthrough",
		flags: func(fs *pflag.FlagSet) {
			fs.String("bucket", demoBucket, "bucket used by the walkthrough")
		},
		run: runDemo,
	},
	{name: "ping", summary: "check that the service accepts the API key", run: runPing},
	{
		name: "admin create-kv", args: []string{"name"}, summary: "provision a store and print its API key",
		kind: needsAdmin, flags: adminFlags, run: runCreateKV,
	},
	{
		name: "admin change-key", args: []string{"name"}, summary: "rotate a store's API key",
		kind: needsAdmin, flags: adminFlags, run: runChangeKey,
	},
	{name: "version", summary: "print version information", kind: needsNothing, run: runVersion},
}

func adminFlags(fs *pflag.FlagSet) {
	fs.String("master-key", "", "master API key for admin routes (env KVREST_MASTER_KEY)")
	fs.String("admin-url", "", "service root serving /admin (default: base URL without /api)")
}

// commandFlagKeys maps command flags to config keys.
var commandFlagKeys = map[string]string{
	"master-key": "kvrest.master_key",
	"admin-url":  "kvrest.admin_url",
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func runCreateBucket(ctx context.Context, e *env) error {
	if err := e.client.CreateBucket(ctx, e.args[0]); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Bucket '%s' created.\n", e.args[0])
	return nil
}

func runDeleteBucket(ctx context.Context, e *env) error {
	if err := e.client.DeleteBucket(ctx, e.args[0]); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Bucket '%s' deleted.\n", e.args[0])
	return nil
}

func runBuckets(ctx context.Context, e *env) error {
	res, err := e.client.ListBuckets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, res)
	return nil
}

func runPut(ctx context.Context, e *env) error {
	raw := []byte(e.args[2])
	if !json.Valid(raw) {
		return usageErrorf("put: value %q is not valid JSON", e.args[2])
	}
	if err := e.client.PutValue(ctx, e.args[0], e.args[1], json.RawMessage(raw)); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Key '%s' stored in bucket '%s'.\n", e.args[1], e.args[0])
	return nil
}

func runGet(ctx context.Context, e *env) error {
	res, err := e.client.GetValue(ctx, e.args[0], e.args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, res)
	return nil
}

func runDelete(ctx context.Context, e *env) error {
	if err := e.client.DeleteValue(ctx, e.args[0], e.args[1]); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Key '%s' deleted from bucket '%s'.\n", e.args[1], e.args[0])
	return nil
}

func runKeys(ctx context.Context, e *env) error {
	res, err := e.client.ListKeys(ctx, e.args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, res)
	return nil
}

func runDemo(ctx context.Context, e *env) error {
	bucket, err := e.flags.GetString("bucket")
	if err != nil {
		return err
	}
	const key = "my-key"
	value := map[string]string{"message": "Hello from the API!"}

	if err := e.client.CreateBucket(ctx, bucket); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Bucket '%s' created successfully.\n", bucket)

	if err := e.client.PutValue(ctx, bucket, key, value); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Key-value pair created/updated for key '%s'.\n", key)

	got, err := e.client.GetValue(ctx, bucket, key)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Retrieved value for key '%s': %s\n", key, got)

	buckets, err := e.client.ListBuckets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "All buckets: %s\n", buckets)

	keys, err := e.client.ListKeys(ctx, bucket)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Keys in bucket '%s': %s\n", bucket, keys)

	if err := e.client.DeleteValue(ctx, bucket, key); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Key-value pair with key '%s' deleted.\n", key)

	if err := e.client.DeleteBucket(ctx, bucket); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Bucket '%s' deleted.\n", bucket)
	return nil
}

func runPing(ctx context.Context, e *env) error {
	if err := e.app.ReadyCheck(ctx); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "ok %s\n", e.client.Config().BaseURL)
	return nil
}

type keyOutput struct {
	Name   string `json:"name"`
	APIKey string `json:"api_key"`
}

func runCreateKV(ctx context.Context, e *env) error {
	key, err := e.admin.CreateKV(ctx, e.args[0])
	if err != nil {
		return err
	}
	return writeJSON(e.out, keyOutput{Name: e.args[0], APIKey: key})
}

func runChangeKey(ctx context.Context, e *env) error {
	key, err := e.admin.ChangeAPIKey(ctx, e.args[0])
	if err != nil {
		return err
	}
	return writeJSON(e.out, keyOutput{Name: e.args[0], APIKey: key})
}

func runVersion(_ context.Context, e *env) error {
	fmt.Fprintln(e.out, versionString())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
