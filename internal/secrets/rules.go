package secrets

// DefaultRules covers the credential formats most often committed by mistake.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:      "aws-access-key-id",
			Pattern: `(?:A3T[A-Z0-9]|AKIA|AGPA|AIDA|AROA|AIPA|ANPA|ANVA|ASIA)[A-Z0-9]{16}`,
		},
		{
			ID:       "aws-secret-access-key",
			Pattern:  `(?i)aws_?secret_?access_?key\s*[:=]\s*['"]?[A-Za-z0-9/+=]{40}['"]?`,
			Keywords: []string{"secret"},
		},
		{
			ID:      "github-token",
			Pattern: `(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{36}`,
		},
		{
			ID:      "github-fine-grained",
			Pattern: `github_pat_[A-Za-z0-9_]{22,}`,
		},
		{
			ID:      "gitlab-token",
			Pattern: `glpat-[A-Za-z0-9\-]{20,}`,
		},
		{
			ID:      "slack-token",
			Pattern: `xox[baprs]-[A-Za-z0-9\-]{10,}`,
		},
		{
			ID:      "stripe-key",
			Pattern: `(?:sk|pk)_(?:live|test)_[A-Za-z0-9]{24,}`,
		},
		{
			ID:      "google-api-key",
			Pattern: `AIza[A-Za-z0-9_\-]{35}`,
		},
		{
			ID:      "anthropic-api-key",
			Pattern: `sk-ant-[A-Za-z0-9_\-]{90,}`,
		},
		{
			ID:      "openai-api-key",
			Pattern: `sk-[A-Za-z0-9]{48,}`,
		},
		{
			ID:      "npm-token",
			Pattern: `npm_[A-Za-z0-9]{36}`,
		},
		{
			ID:      "jwt",
			Pattern: `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`,
		},
		{
			ID:       "database-url",
			Pattern:  `(?i)(?:postgres|postgresql|mysql|mongodb|redis|amqp)://[^:\s/]+:[^@\s]+@[^\s'"]+`,
			Keywords: []string{"://"},
		},
		{
			ID:       "private-key",
			Pattern:  `-----BEGIN (?:OPENSSH |RSA |DSA |EC |PGP )?PRIVATE KEY(?: BLOCK)?-----[\s\S]*?-----END (?:OPENSSH |RSA |DSA |EC |PGP )?PRIVATE KEY(?: BLOCK)?-----`,
			Keywords: []string{"private key"},
		},
		{
			ID:       "env-credential",
			Pattern:  `(?i)\b(?:DB_PASSWORD|DATABASE_PASSWORD|POSTGRES_PASSWORD|MYSQL_PASSWORD|REDIS_PASSWORD|API_SECRET|APP_SECRET|SECRET_KEY|ENCRYPTION_KEY|AUTH_TOKEN|ACCESS_TOKEN|REFRESH_TOKEN)\s*[:=]\s*['"]?[^\s'"]{8,}['"]?`,
			Keywords: []string{"password", "secret", "key", "token"},
		},
	}
}
