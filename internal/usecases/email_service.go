package usecases

import (
	"context"
	"fmt"
	"strings"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/pkg/logger"
	"go.uber.org/zap"
)

// EmailSender delivers or queues a message.
type EmailSender interface {
	Send(ctx context.Context, msg *entities.EmailMessage) error
}

// EmailService builds plain-text notifications. Every send is best-effort:
// failures are logged and never returned to the caller.
type EmailService struct {
	sender     EmailSender
	appURL     string
	adminEmail string
}

// NewEmailService creates a new email service
func NewEmailService(sender EmailSender, appURL, adminEmail string) *EmailService {
	return &EmailService{
		sender:     sender,
		appURL:     strings.TrimRight(appURL, "/"),
		adminEmail: adminEmail,
	}
}

func (s *EmailService) escrowLink(e *entities.Escrow) string {
	return fmt.Sprintf("%s/escrow/%s", s.appURL, e.ID)
}

func (s *EmailService) send(ctx context.Context, msg *entities.EmailMessage) {
	if s == nil || s.sender == nil || msg.To == "" {
		return
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		logger.Warn(ctx, "Failed to send email",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}
}

func sideVerb(role entities.PartyRole) string {
	if role == entities.PartyBuyer {
		return "Buy"
	}
	return "Sell"
}

// EscrowInvitation tells the counterparty that an escrow was opened with them.
func (s *EmailService) EscrowInvitation(ctx context.Context, e *entities.Escrow, inviterEmail string, counterpartyIsNew bool) {
	role := e.InitiatorRole.Counterparty()
	var b strings.Builder
	fmt.Fprintf(&b, "%s has opened an escrow with you as the %s.\n\n", inviterEmail, strings.ToLower(string(role)))
	fmt.Fprintf(&b, "Trade: %s %s %s, paid in %s at %s %s per unit.\n",
		sideVerb(role), e.Amount.String(), e.FromCurrency, e.ToCurrency, e.Price.String(), e.ToCurrency)
	fmt.Fprintf(&b, "You deposit: %s %s\n", e.SideAmount(role).String(), e.DepositCurrency(role))
	fmt.Fprintf(&b, "Funding deadline: %s\n\n", e.ConfirmationDeadline.UTC().Format("2006-01-02 15:04 MST"))
	if counterpartyIsNew {
		fmt.Fprintf(&b, "Create your account with this email address to take part: %s/register\n", s.appURL)
	}
	fmt.Fprintf(&b, "View the escrow: %s\n", s.escrowLink(e))

	s.send(ctx, &entities.EmailMessage{
		Kind:    entities.EmailEscrowInvitation,
		To:      e.EmailOf(role),
		Subject: "You have been invited to an escrow",
		Body:    b.String(),
	})
}

// FundingReported notifies the operations mailbox that a side reported its deposit.
func (s *EmailService) FundingReported(ctx context.Context, e *entities.Escrow, role entities.PartyRole, reference string) {
	body := fmt.Sprintf("The %s of escrow %s reported a deposit of %s %s.\nReference: %s\nStatus: %s\n\nReview: %s\n",
		strings.ToLower(string(role)), e.ID, e.SideAmount(role).String(), e.DepositCurrency(role),
		reference, e.Status, s.escrowLink(e))

	s.send(ctx, &entities.EmailMessage{
		Kind:    entities.EmailFundingReported,
		To:      s.adminEmail,
		Subject: fmt.Sprintf("Escrow %s: %s funding reported", e.ID, strings.ToLower(string(role))),
		Body:    body,
	})
}

// EscrowReleased tells both parties that funds were released.
func (s *EmailService) EscrowReleased(ctx context.Context, e *entities.Escrow) {
	for _, role := range []entities.PartyRole{entities.PartyBuyer, entities.PartySeller} {
		body := fmt.Sprintf("Escrow %s has been released.\nYou will receive %s %s at the payout details on file.\n\n%s\n",
			e.ID, e.SideAmount(role.Counterparty()).String(), e.PayoutCurrency(role), s.escrowLink(e))
		s.send(ctx, &entities.EmailMessage{
			Kind:    entities.EmailEscrowReleased,
			To:      e.EmailOf(role),
			Subject: "Your escrow has been released",
			Body:    body,
		})
	}
}

// EscrowCancelled tells both parties that the escrow will not proceed.
func (s *EmailService) EscrowCancelled(ctx context.Context, e *entities.Escrow, reason string) {
	if reason == "" {
		reason = "no reason given"
	}
	for _, role := range []entities.PartyRole{entities.PartyBuyer, entities.PartySeller} {
		body := fmt.Sprintf("Escrow %s has been cancelled (%s).\nAny confirmed deposit will be returned by our operations team.\n\n%s\n",
			e.ID, reason, s.escrowLink(e))
		s.send(ctx, &entities.EmailMessage{
			Kind:    entities.EmailEscrowCancelled,
			To:      e.EmailOf(role),
			Subject: "Your escrow has been cancelled",
			Body:    body,
		})
	}
}

// KYCVerified confirms a successful identity verification.
func (s *EmailService) KYCVerified(ctx context.Context, user *entities.User) {
	s.send(ctx, &entities.EmailMessage{
		Kind:    entities.EmailKYCVerified,
		To:      user.Email,
		Subject: "Your identity has been verified",
		Body:    fmt.Sprintf("Hi %s,\n\nYour identity verification is complete. You can now open escrows.\n\n%s\n", user.Name, s.appURL),
	})
}
