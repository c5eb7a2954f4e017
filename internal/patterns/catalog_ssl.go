package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addSSLPatterns) }

func addSSLPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "ssl_cert_expired", Source: `certificate.{0,20}(has expired|expired)`,
			Component: model.ComponentSSL, Category: "security", Severity: model.SeverityCritical,
			Priority: 8, Description: "A TLS certificate has expired",
		},
		{
			ID: "ssl_cert_verify_failed", Source: `certificate verify failed`,
			Component: model.ComponentSSL, Category: "security", Severity: model.SeverityError,
			Priority: 6, Description: "TLS certificate verification failed",
		},
		{
			ID: "ssl_self_signed", Source: `self.signed certificate`,
			Component: model.ComponentSSL, Category: "security", Severity: model.SeverityWarning,
			Priority: 3, Description: "A self-signed certificate was encountered in a verification chain",
		},
		{
			ID: "ssl_hostname_mismatch", Source: `certificate.{0,20}(hostname|name).{0,20}(mismatch|doesn't match|does not match)`,
			Component: model.ComponentSSL, Category: "security", Severity: model.SeverityError,
			Priority: 6, Description: "Certificate hostname did not match the requested name",
		},
		{
			ID: "ssl_handshake_failure", Source: `ssl handshake failure`,
			Component: model.ComponentSSL, Category: "security", Severity: model.SeverityError,
			Priority: 5, Description: "A generic SSL/TLS handshake failure occurred",
		},
		{
			ID: "ssl_unknown_ca", Source: `unable to get local issuer certificate`,
			Component: model.ComponentSSL, Category: "security", Severity: model.SeverityError,
			Priority: 6, Description: "The certificate's issuing CA is not trusted locally",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}
