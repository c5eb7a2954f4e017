package patterns

import "github.com/weaponry/autogrep/internal/model"

func init() { registerCatalog(addAuthPatterns) }

func addAuthPatterns(b *Bank) error {
	defs := []Pattern{
		{
			ID: "auth_invalid_credentials", Source: `(invalid (login|credentials)|authentication failed)`,
			Component: model.ComponentAuth, Category: "security", Severity: model.SeverityWarning,
			Priority: 3, Description: "A login attempt failed due to invalid credentials",
		},
		{
			ID: "auth_token_expired", Source: `(access )?token.{0,20}(expired|has expired)`,
			Component: model.ComponentAuth, Category: "security", Severity: model.SeverityWarning,
			Priority: 3, Description: "An authentication token expired",
		},
		{
			ID: "auth_ldap_bind_failed", Source: `ldap bind failed`,
			Component: model.ComponentAuth, Category: "security", Severity: model.SeverityError,
			Priority: 6, Description: "LDAP bind failed, usually a configuration or connectivity issue",
		},
		{
			ID: "auth_saml_failure", Source: `saml response.{0,30}(invalid|error)`,
			Component: model.ComponentAuth, Category: "security", Severity: model.SeverityError,
			Priority: 6, Description: "SAML SSO response validation failed",
		},
		{
			ID: "auth_2fa_locked", Source: `too many.{0,20}(2fa|otp).{0,20}attempts`,
			Component: model.ComponentAuth, Category: "security", Severity: model.SeverityWarning,
			Priority: 3, Description: "An account was locked after repeated failed two-factor attempts",
		},
		{
			ID: "auth_oauth_failure", Source: `oauth2?.{0,20}(error|denied|invalid_grant)`,
			Component: model.ComponentAuth, Category: "security", Severity: model.SeverityError,
			Priority: 5, Description: "An OAuth authorization exchange failed",
		},
	}

	for _, d := range defs {
		if err := b.Add(d); err != nil {
			return err
		}
	}
	return nil
}
