package types

// FactorKey identifies one of the qualitative factors that make up a probability rating
type FactorKey string

const (
	FactorFrequency       FactorKey = "frequency"
	FactorVolume          FactorKey = "volume"
	FactorMassivity       FactorKey = "massivity"
	FactorCriticalPath    FactorKey = "critical_path"
	FactorComplexity      FactorKey = "complexity"
	FactorVolatility      FactorKey = "volatility"
	FactorVulnerabilities FactorKey = "vulnerabilities"
)

// AllFactorKeys returns the factor keys in display order
func AllFactorKeys() []FactorKey {
	return []FactorKey{
		FactorFrequency,
		FactorVolume,
		FactorMassivity,
		FactorCriticalPath,
		FactorComplexity,
		FactorVolatility,
		FactorVulnerabilities,
	}
}

// IsValid checks if the factor key is known
func (k FactorKey) IsValid() bool {
	for _, key := range AllFactorKeys() {
		if key == k {
			return true
		}
	}
	return false
}

func (k FactorKey) String() string {
	return string(k)
}

// FactorInfo holds the user-facing description of a factor and its five levels.
// Levels[0] describes level 1.
type FactorInfo struct {
	Key    FactorKey
	Name   string
	Levels [5]string
}

var factorCatalog = []FactorInfo{
	{
		Key:  FactorFrequency,
		Name: "Frecuencia",
		Levels: [5]string{
			"La actividad se ejecuta anualmente o con menor frecuencia",
			"La actividad se ejecuta semestral o trimestralmente",
			"La actividad se ejecuta mensualmente",
			"La actividad se ejecuta semanalmente",
			"La actividad se ejecuta diariamente o de forma continua",
		},
	},
	{
		Key:  FactorVolume,
		Name: "Volumen",
		Levels: [5]string{
			"Muy pocas transacciones u operaciones",
			"Volumen bajo de transacciones",
			"Volumen moderado de transacciones",
			"Volumen alto de transacciones",
			"Volumen muy alto de transacciones",
		},
	},
	{
		Key:  FactorMassivity,
		Name: "Masividad",
		Levels: [5]string{
			"Afecta a un usuario o área puntual",
			"Afecta a un grupo reducido de usuarios",
			"Afecta a varias áreas de la organización",
			"Afecta a gran parte de la organización o clientes",
			"Afecta a toda la organización y a terceros",
		},
	},
	{
		Key:  FactorCriticalPath,
		Name: "Ruta crítica",
		Levels: [5]string{
			"No forma parte de ningún proceso crítico",
			"Apoya indirectamente a un proceso crítico",
			"Forma parte de un proceso relevante",
			"Forma parte de un proceso crítico",
			"Es un punto único de falla de un proceso crítico",
		},
	},
	{
		Key:  FactorComplexity,
		Name: "Complejidad",
		Levels: [5]string{
			"Actividad simple y estandarizada",
			"Actividad con pocos pasos y reglas claras",
			"Actividad con varias etapas o decisiones",
			"Actividad con múltiples actores y sistemas",
			"Actividad altamente compleja y poco documentada",
		},
	},
	{
		Key:  FactorVolatility,
		Name: "Volatilidad",
		Levels: [5]string{
			"El entorno y las reglas no cambian",
			"Cambios ocasionales y planificados",
			"Cambios periódicos en reglas o sistemas",
			"Cambios frecuentes en reglas, sistemas o personal",
			"Cambios constantes e impredecibles",
		},
	},
	{
		Key:  FactorVulnerabilities,
		Name: "Vulnerabilidades",
		Levels: [5]string{
			"Sin vulnerabilidades conocidas",
			"Vulnerabilidades menores y mitigadas",
			"Vulnerabilidades moderadas identificadas",
			"Vulnerabilidades relevantes sin mitigar",
			"Vulnerabilidades críticas explotadas en el pasado",
		},
	},
}

// FactorCatalog returns a copy of the factor descriptions in display order
func FactorCatalog() []FactorInfo {
	catalog := make([]FactorInfo, len(factorCatalog))
	copy(catalog, factorCatalog)
	return catalog
}
