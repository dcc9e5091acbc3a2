package models

// defaultTemplates are the factory message bodies per slug, used both for
// seeding and for restoring an edited template.
var defaultTemplates = map[string]MessageTemplate{
	"payment_confirmed": {
		Slug:      "payment_confirmed",
		Name:      "Pagamento confirmado",
		Content:   "Olá {nome}! Recebemos o pagamento de {valor}. Obrigado! 🏢",
		Variables: []string{"nome", "valor"},
	},
	"payment_overdue": {
		Slug:      "payment_overdue",
		Name:      "Pagamento em atraso",
		Content:   "Olá {nome}, o pagamento de {valor} com vencimento em {vencimento} está em aberto. Acesse: {link}",
		Variables: []string{"nome", "valor", "vencimento", "link"},
	},
	"trial_ending": {
		Slug:      "trial_ending",
		Name:      "Período de teste terminando",
		Content:   "Olá {nome}! Seu período de teste do condomínio {condominio} termina em {dias} dias.",
		Variables: []string{"nome", "condominio", "dias"},
	},
	"occurrence_created": {
		Slug:      "occurrence_created",
		Name:      "Nova ocorrência",
		Content:   "Olá {nome}, uma nova ocorrência foi registrada: {titulo}. Acompanhe em: {link}",
		Variables: []string{"nome", "titulo", "link"},
	},
	"occurrence_updated": {
		Slug:      "occurrence_updated",
		Name:      "Ocorrência atualizada",
		Content:   "Olá {nome}, a ocorrência \"{titulo}\" foi atualizada para {status}. Veja em: {link}",
		Variables: []string{"nome", "titulo", "status", "link"},
	},
	"package_received": {
		Slug:      "package_received",
		Name:      "Encomenda recebida",
		Content:   "Olá {nome}! Uma encomenda chegou para o apartamento {apartamento} e está na portaria.",
		Variables: []string{"nome", "apartamento"},
	},
	"welcome_resident": {
		Slug:      "welcome_resident",
		Name:      "Boas-vindas",
		Content:   "Bem-vindo(a) ao {condominio}, {nome}! Acesse o aplicativo pelo link: {link}",
		Variables: []string{"nome", "condominio", "link"},
	},
}

// DefaultTemplate returns the factory template for a slug.
func DefaultTemplate(slug string) (MessageTemplate, bool) {
	tpl, ok := defaultTemplates[slug]
	return tpl, ok
}

// DefaultTemplates returns the factory templates for seeding.
func DefaultTemplates() []MessageTemplate {
	list := make([]MessageTemplate, 0, len(defaultTemplates))
	for _, tpl := range defaultTemplates {
		tpl.IsActive = true
		list = append(list, tpl)
	}
	return list
}
