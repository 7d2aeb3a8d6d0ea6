// Package kvrest is a client for the kvrest key-value service: named buckets
// holding JSON values, addressed over plain HTTP.
//
// Every operation is a single request built from a fixed header set
// (API-KEY and Content-Type: application/json) and the configured base URL.
// Only 200 and 201 count as success. A successful response is returned as a
// Result whose Kind tells apart decoded JSON, an empty body and a body that
// was not JSON. Any other status is a *StatusError carrying the raw body.
// Nothing is retried.
//
//	c, err := kvrest.New(kvrest.Config{APIKey: os.Getenv("KVREST_API_KEY")})
//	if err != nil {
//	    return err
//	}
//	if err := c.CreateBucket(ctx, "my-test-bucket"); err != nil {
//	    return err
//	}
//	if err := c.PutValue(ctx, "my-test-bucket", "my-key", map[string]string{"message": "hi"}); err != nil {
//	    return err
//	}
//	var v map[string]string
//	err = c.GetValueInto(ctx, "my-test-bucket", "my-key", &v)
package kvrest
