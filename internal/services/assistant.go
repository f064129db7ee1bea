package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const supportWhatsAppURL = "https://wa.me/5511999999999"

// AssistantAction tells the frontend what to do with the reply.
const (
	ActionNone     = "none"
	ActionNavigate = "navigate"
	ActionLink     = "link"
)

// navigationRoutes is checked in order; the first keyword found in the
// reply wins. Keywords are matched case-insensitively as substrings.
var navigationRoutes = []struct {
	keyword string
	path    string
}{
	{"dashboard", "/dashboard"},
	{"checklist", "/checklist/manutencao"},
	{"relatório", "/relatorios"},
	{"usuário", "/usuarios"},
	{"veículo", "/veiculos"},
	{"pneu", "/pneus"},
}

type AssistantService struct {
	gateway *AIGateway
}

func NewAssistantService(gateway *AIGateway) *AssistantService {
	return &AssistantService{gateway: gateway}
}

type AssistantReply struct {
	Response       string  `json:"response"`
	Action         string  `json:"action"`
	Payload        string  `json:"payload,omitempty"`
	ProcessingTime float64 `json:"processing_time"`
}

// Answer builds the context-aware prompt, asks the active AI provider and
// classifies the reply into a frontend action.
func (s *AssistantService) Answer(ctx context.Context, query string, userID uint, pageContext map[string]any) (*AssistantReply, error) {
	prompt := s.buildPrompt(query, pageContext)

	result, err := s.gateway.GenerateText(ctx, prompt, userID)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("assistant service error: %s", result.Error)
	}

	reply := s.classify(result.Text)
	reply.ProcessingTime = result.ProcessingTime
	return reply, nil
}

func (s *AssistantService) buildPrompt(query string, pageContext map[string]any) string {
	if pageContext == nil {
		pageContext = map[string]any{}
	}
	contextJSON, err := json.MarshalIndent(pageContext, "", "  ")
	if err != nil {
		contextJSON = []byte("{}")
	}

	return fmt.Sprintf(`Você é um assistente inteligente para RodoCheck, um sistema de gestão de frotas.
Sua função é ajudar usuários a navegar, responder perguntas e dar insights com base nos dados do sistema.

Pergunta do usuário: %q

Contexto do sistema:
%s

Páginas disponíveis:
- /dashboard: Dashboard principal
- /checklist/manutencao: Criar checklist de manutenção
- /consultas: Buscar checklists anteriores
- /relatorios: Gerar relatórios
- /manutencoes: Ver e agendar manutenções
- /usuarios: Gerenciar usuários
- /veiculos: Gerenciar veículos
- /pneus: Gerenciar pneus

Responda de forma clara, profissional e objetiva. Se o usuário pedir para navegar para uma página,
responda com "navigate" e a URL. Se pedir suporte, responda com "link" e o WhatsApp.
`, query, contextJSON)
}

// classify maps the free-text reply to an action by keyword. This is a
// deliberately simple heuristic; the model is prompted to mention the
// page it wants the user to visit.
func (s *AssistantService) classify(text string) *AssistantReply {
	lower := strings.ToLower(text)

	for _, route := range navigationRoutes {
		if strings.Contains(lower, route.keyword) {
			return &AssistantReply{Response: text, Action: ActionNavigate, Payload: route.path}
		}
	}
	if strings.Contains(lower, "suporte") || strings.Contains(lower, "whatsapp") {
		return &AssistantReply{Response: text, Action: ActionLink, Payload: supportWhatsAppURL}
	}
	return &AssistantReply{Response: text, Action: ActionNone}
}
