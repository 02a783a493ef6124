package payment

import (
	"context"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
)

// fallbackPayerEmail é usado quando a reserva pública não informa e-mail;
// o MercadoPago exige um pagador.
const fallbackPayerEmail = "cliente@agendarighttime.com.br"

// MercadoPago implementa o provedor PIX sobre o SDK oficial. O access
// token é por dono, então o client é montado a cada chamada.
type MercadoPago struct{}

func NewMercadoPago() *MercadoPago {
	return &MercadoPago{}
}

func (m *MercadoPago) CreatePixCharge(
	ctx context.Context,
	accessToken string,
	amount float64,
	description string,
	payerEmail string,
	correlationID string,
) (*domain.PixCharge, error) {

	client, err := m.client(accessToken)
	if err != nil {
		return nil, err
	}

	if payerEmail == "" {
		payerEmail = fallbackPayerEmail
	}

	req := mppayment.Request{
		TransactionAmount: amount,
		Description:       description,
		PaymentMethodID:   "pix",
		ExternalReference: correlationID,
		Payer: &mppayment.PayerRequest{
			Email: payerEmail,
		},
	}

	resp, err := client.Create(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	if resp == nil || resp.PointOfInteraction.TransactionData.QRCode == "" {
		// cobrança sem payload é inutilizável para o cliente
		return nil, httperr.ErrBusiness(httperr.CodeProviderUnavailable)
	}

	return &domain.PixCharge{
		Payload:   resp.PointOfInteraction.TransactionData.QRCode,
		Reference: strconv.Itoa(resp.ID),
	}, nil
}

func (m *MercadoPago) CheckPaymentStatus(
	ctx context.Context,
	accessToken string,
	reference string,
) (domain.PaymentStatus, error) {

	client, err := m.client(accessToken)
	if err != nil {
		return domain.PaymentPendente, err
	}

	id, err := strconv.Atoi(reference)
	if err != nil {
		return domain.PaymentPendente, httperr.ErrBusiness(httperr.CodeProviderUnavailable)
	}

	resp, err := client.Get(ctx, id)
	if err != nil {
		return domain.PaymentPendente, classify(err)
	}

	if resp.Status == "approved" {
		return domain.PaymentPago, nil
	}
	return domain.PaymentPendente, nil
}

func (m *MercadoPago) client(accessToken string) (mppayment.Client, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, httperr.ErrBusiness(httperr.CodeProviderCredentials)
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeProviderCredentials)
	}

	return mppayment.NewClient(cfg), nil
}

// classify separa credencial rejeitada (ação do profissional) de falha
// transitória (tentar de novo).
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid access token") {
		return httperr.ErrBusiness(httperr.CodeProviderCredentials)
	}
	return httperr.ErrBusiness(httperr.CodeProviderUnavailable)
}

var _ domain.PixProvider = (*MercadoPago)(nil)
