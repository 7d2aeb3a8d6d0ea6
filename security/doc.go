// Package security holds the TLS settings used by the kvrest HTTP transport
// when talking to a self-hosted service behind a private CA or mTLS proxy.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/etc/kvrest/ca.pem",
//	    CertFile: "/etc/kvrest/client.pem",
//	    KeyFile:  "/etc/kvrest/client-key.pem",
//	}
//
//	tlsConfig, err := cfg.Build()
package security
