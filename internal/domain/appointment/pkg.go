package appointment

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// ===============================
// Monthly Package
// ===============================

// PackageSessions é o número de sessões vendidas juntas num pacote mensal.
const PackageSessions = 4

var packageTokenRe = regexp.MustCompile(`\[pacote:(PKG-[0-9a-f]{8})\]`)

// NewPackageToken gera o token compartilhado pelas sessões de um pacote.
func NewPackageToken() string {
	return "PKG-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// NotesWithToken embute o token no campo de observações.
func NotesWithToken(notes, token string) string {
	tag := fmt.Sprintf("[pacote:%s]", token)
	if notes == "" {
		return tag
	}
	return notes + " " + tag
}

// PackageToken extrai o token de pacote das observações. Token ausente ou
// malformado significa agendamento avulso, nunca erro.
func PackageToken(notes string) (string, bool) {
	m := packageTokenRe.FindStringSubmatch(notes)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Package é o agregado virtual de um pacote mensal. Não existe como linha
// no banco: é derivado das 4 sessões que compartilham o token.
type Package struct {
	Token   string
	Members []models.Appointment

	TotalValue float64
	Cancelled  int
	Completed  int
	Active     int
}

// Representative devolve a sessão que representa o pacote em listagens:
// a primeira não-terminal, ou a primeira na ordem cronológica.
func (p *Package) Representative() models.Appointment {
	for _, m := range p.Members {
		if !Status(m.Status).Terminal() {
			return m
		}
	}
	return p.Members[0]
}

// DeriveStatus calcula o status de exibição do agregado. Pagamento em
// qualquer sessão confirma o pacote inteiro, mesmo que a sessão
// representativa não tenha pagamento próprio.
func (p *Package) DeriveStatus(paymentsByAppointment map[uint][]models.Payment) Status {
	if p.Active == 0 {
		if p.Completed > 0 {
			return StatusConcluido
		}
		return StatusCancelado
	}

	anyPaid := false
	anyPending := false
	for _, m := range p.Members {
		for _, pay := range paymentsByAppointment[m.ID] {
			switch PaymentStatus(pay.Status) {
			case PaymentPago:
				anyPaid = true
			case PaymentPendente:
				anyPending = true
			}
		}
	}

	if anyPaid {
		return StatusConfirmado
	}
	if anyPending {
		return StatusPendente
	}
	return StatusAgendado
}

// PercentPaid de pacote é binário: 100 quando o agregado está
// confirmado/concluído, 0 caso contrário.
func (p *Package) PercentPaid(paymentsByAppointment map[uint][]models.Payment) int {
	st := p.DeriveStatus(paymentsByAppointment)
	if st == StatusConfirmado || st == StatusConcluido {
		return 100
	}
	return 0
}

// GroupPackages separa as linhas de agendamento em agregados de pacote e
// avulsos. Tokens com menos sessões resolvidas que o esperado degradam
// para avulsos (linha nunca é descartada).
func GroupPackages(appointments []models.Appointment) ([]Package, []models.Appointment) {
	byToken := make(map[string][]models.Appointment)
	var order []string
	var singles []models.Appointment

	for _, ap := range appointments {
		token, ok := PackageToken(ap.Notes)
		if !ok {
			singles = append(singles, ap)
			continue
		}
		if _, seen := byToken[token]; !seen {
			order = append(order, token)
		}
		byToken[token] = append(byToken[token], ap)
	}

	var packages []Package
	for _, token := range order {
		members := byToken[token]
		if len(members) < PackageSessions {
			singles = append(singles, members...)
			continue
		}

		sort.Slice(members, func(i, j int) bool {
			if members[i].ScheduledAt.Equal(members[j].ScheduledAt) {
				return members[i].ID < members[j].ID
			}
			return members[i].ScheduledAt.Before(members[j].ScheduledAt)
		})

		pkg := Package{Token: token, Members: members}
		for _, m := range members {
			// valor de sessão cancelada continua contando no total
			// histórico do pacote
			pkg.TotalValue += m.Value

			switch Status(m.Status) {
			case StatusCancelado:
				pkg.Cancelled++
			case StatusConcluido:
				pkg.Completed++
			default:
				pkg.Active++
			}
		}

		packages = append(packages, pkg)
	}

	return packages, singles
}
