package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigureFrench(t *testing.T) {
	t.Cleanup(func() { Configure("../../locales", DefaultLanguage) })

	assert.Equal(t, "fr", Configure("../../locales", "FR"))
	assert.Equal(t, "Erreur", Translate("Error"))
	assert.Equal(t, "Vous serez notifié quand BTC/USD passera au-dessus de 55000$.",
		Translate("You will be notified when %s goes %s %s$.", "BTC/USD", Translate("above"), "55000"))
}

func TestConfigureFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, DefaultLanguage, Configure("../../locales", ""))
	assert.Equal(t, "Error", Translate("Error"))
	assert.Equal(t, "BUY 0.1 BTC at market price USD",
		Translate("%s %s %s at %s %s", "BUY", "0.1", "BTC", "market price", "USD"))
}
