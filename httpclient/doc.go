// Package httpclient is the single-attempt HTTP transport behind the kvrest
// client. It owns connection pooling, TLS, default headers and header-based
// authentication. It never classifies response statuses: every response that
// arrives is returned as-is, and only transport failures become errors.
//
//	c, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://kvrest.dev/api",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.APIKeyAuthHeader(key, "API-KEY"),
//	    Headers: map[string]string{"Content-Type": "application/json"},
//	})
//
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/buckets",
//	})
package httpclient
