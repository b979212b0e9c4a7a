package usecase

import (
	"fmt"

	"github.com/LavaJover/shvark-booking-service/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	LangEN = "en"
	LangAR = "ar"
)

// PaymentMessage - данные для сообщения клиенту после подтверждения оплаты.
type PaymentMessage struct {
	OrderRef string
	Cause    domain.DifferenceCause
	Invoice  decimal.Decimal
	Received decimal.Decimal
	Diff     decimal.Decimal
	Currency string
	Credited bool
}

func orderRef(o *domain.Order) string {
	ref := o.OrderNumber
	if ref == "" {
		ref = o.ID
	}
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	return "#" + ref
}

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

// RenderPaymentMessage picks the template by cause only. Unknown languages fall back to English.
func RenderPaymentMessage(lang string, m PaymentMessage) string {
	if lang == LangAR {
		return renderAR(m)
	}
	return renderEN(m)
}

func renderEN(m PaymentMessage) string {
	received := money(m.Received, m.Currency)
	invoice := money(m.Invoice, m.Currency)

	switch m.Cause {
	case domain.CauseMatching:
		return fmt.Sprintf("✅ Your payment for order %s has been received.\n\nAmount: %s\n\nThank you for booking with us 🌟",
			m.OrderRef, received)
	case domain.CauseTip:
		return fmt.Sprintf("✅ Payment received for order %s.\n\nAmount received: %s\nInvoice amount: %s\n\n💰 The extra %s was recorded as a tip for your specialist.",
			m.OrderRef, received, invoice, money(m.Diff, m.Currency))
	case domain.CauseWallet, domain.CauseNoChange:
		msg := fmt.Sprintf("✅ Payment received for order %s.\n\nAmount received: %s\nInvoice amount: %s",
			m.OrderRef, received, invoice)
		if m.Credited {
			msg += fmt.Sprintf("\n\n💳 The extra %s was added to your wallet for future orders.\n\n⚠️ Wallet credit cannot be withdrawn as cash.",
				money(m.Diff, m.Currency))
		}
		return msg
	default:
		return fmt.Sprintf("⚠️ Payment received for order %s.\n\nAmount received: %s\nInvoice amount: %s\n\nThe difference has been recorded and will be reviewed by our team.",
			m.OrderRef, received, invoice)
	}
}

func renderAR(m PaymentMessage) string {
	received := money(m.Received, m.Currency)
	invoice := money(m.Invoice, m.Currency)

	switch m.Cause {
	case domain.CauseMatching:
		return fmt.Sprintf("✅ تم استلام دفعتك للطلب رقم %s بنجاح.\n\nالمبلغ: %s\n\nشكراً لاستخدامك خدماتنا 🌟",
			m.OrderRef, received)
	case domain.CauseTip:
		return fmt.Sprintf("✅ تم استلام دفعتك للطلب رقم %s.\n\nالمبلغ المستلم: %s\nقيمة الفاتورة: %s\n\n💰 تم تسجيل المبلغ الإضافي (%s) كإكرامية للمحترف.",
			m.OrderRef, received, invoice, money(m.Diff, m.Currency))
	case domain.CauseWallet, domain.CauseNoChange:
		msg := fmt.Sprintf("✅ تم استلام دفعتك للطلب رقم %s.\n\nالمبلغ المستلم: %s\nقيمة الفاتورة: %s",
			m.OrderRef, received, invoice)
		if m.Credited {
			msg += fmt.Sprintf("\n\n💳 تم حفظ المبلغ الإضافي (%s) في محفظتك لاستخدامه في الطلبات القادمة.\n\n⚠️ رصيد المحفظة غير قابل للاسترجاع نقداً.",
				money(m.Diff, m.Currency))
		}
		return msg
	default:
		return fmt.Sprintf("⚠️ تم استلام دفعتك للطلب رقم %s.\n\nالمبلغ المستلم: %s\nقيمة الفاتورة: %s\n\nتم تسجيل فارق في المبلغ وسيتم مراجعته من قبل الإدارة.",
			m.OrderRef, received, invoice)
	}
}
