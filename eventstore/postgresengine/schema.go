package postgresengine

import (
	"fmt"
)

func schemaStatements(tableName string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	%s BIGSERIAL PRIMARY KEY,
	%s TEXT NOT NULL,
	%s TIMESTAMP WITH TIME ZONE NOT NULL,
	%s JSONB NOT NULL,
	%s JSONB NOT NULL
)`, tableName, colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`,
			"idx_"+tableName+"_"+colEventType, tableName, colEventType),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q USING gin (%s jsonb_path_ops)`,
			"idx_"+tableName+"_"+colPayload, tableName, colPayload),
	}
}
