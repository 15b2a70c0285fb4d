package i18n

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
)

var (
	mu   sync.RWMutex
	lang string
)

var translations = map[string]map[string]string{
	"Session starting.": {
		"de": "Sitzung startet.",
		"pt": "Sessão iniciando.",
		"es": "Iniciando sesión.",
	},
	"Please sit down.": {
		"de": "Bitte hinsetzen.",
		"pt": "Por favor, sente-se.",
		"es": "Por favor, siéntate.",
	},
	"Please stand up.": {
		"de": "Bitte aufstehen.",
		"pt": "Por favor, levante-se.",
		"es": "Por favor, ponte de pie.",
	},
	"It's time to change your stance.": {
		"de": "Zeit, die Haltung zu wechseln.",
		"pt": "Hora de mudar de postura.",
		"es": "Es hora de cambiar de postura.",
	},
	"Next reminder in: %d min.": {
		"de": "Nächste Erinnerung in: %d min.",
		"pt": "Próximo lembrete em: %d min.",
		"es": "Próximo recordatorio en: %d min.",
	},
	"Sitting time (min)": {
		"de": "Sitzzeit (min)",
		"pt": "Tempo sentado (min)",
		"es": "Tiempo sentado (min)",
	},
	"Standing time (min)": {
		"de": "Stehzeit (min)",
		"pt": "Tempo em pé (min)",
		"es": "Tiempo de pie (min)",
	},
	"Notification time (s)": {
		"de": "Anzeigedauer (s)",
		"pt": "Duração da notificação (s)",
		"es": "Duración de la notificación (s)",
	},
	"Start stance": {
		"de": "Start-Haltung",
		"pt": "Postura inicial",
		"es": "Postura inicial",
	},
	"Sitting": {
		"de": "Sitzen",
		"pt": "Sentado",
		"es": "Sentado",
	},
	"Standing": {
		"de": "Stehen",
		"pt": "Em pé",
		"es": "De pie",
	},
	"Save": {
		"de": "Speichern",
		"pt": "Salvar",
		"es": "Guardar",
	},
	"Saved": {
		"de": "Gespeichert",
		"pt": "Salvo",
		"es": "Guardado",
	},
	"Unsaved changes": {
		"de": "Ungespeicherte Änderungen",
		"pt": "Alterações não salvas",
		"es": "Cambios sin guardar",
	},
	"Start": {
		"de": "Start",
		"pt": "Iniciar",
		"es": "Iniciar",
	},
	"Stop": {
		"de": "Stopp",
		"pt": "Parar",
		"es": "Parar",
	},
	"Switch stance": {
		"de": "Haltung wechseln",
		"pt": "Trocar postura",
		"es": "Cambiar postura",
	},
	"Not running": {
		"de": "Gestoppt",
		"pt": "Parado",
		"es": "Detenido",
	},
}

func init() {
	SetLang(detect())
}

func detect() string {
	if forced := strings.TrimSpace(os.Getenv("STANCETIMER_LANG")); forced != "" {
		slog.Debug("language forced by environment", "lang", forced)
		return forced
	}

	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		slog.Debug("no user locale detected, defaulting to english", "error", err)
		return "en"
	}
	return fromLocale(userLocales[0])
}

func fromLocale(l string) string {
	for _, prefix := range []string{"de", "pt", "es"} {
		if strings.HasPrefix(l, prefix) {
			return prefix
		}
	}
	return "en"
}

// SetLang overrides the active language.
func SetLang(l string) {
	mu.Lock()
	lang = l
	mu.Unlock()
}

// T translates key into the active language, falling back to key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
