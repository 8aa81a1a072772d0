package ports

import "discoveryspark/domain/core"

// FeatureTranslatorPort maps machine feature names to business phrases.
// Translation is applied downstream of the engine contract, never inside it.
type FeatureTranslatorPort interface {
	Translate(key core.FeatureKey) string
}
