package emailsvc

import (
	"io"
	"log"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnetwireless/dashboard/core"
	appfs "github.com/onnetwireless/dashboard/fs"
	logsvc "github.com/onnetwireless/dashboard/services/logger"
)

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, true, logger)

	svc := NewConsoleServiceMock(conf, logger)

	receipt := &core.EmailMessage{
		To:           []mail.Address{{Name: "Ana", Address: "ana@example.com"}},
		Subject:      "Payment receipt R-000001",
		TemplateName: "payment_receipt",
		TemplateData: map[string]interface{}{
			"CustomerName":  "Ana",
			"Amount":        "$20.00",
			"Period":        "2024-03",
			"ReceiptNumber": "R-000001",
		},
	}
	require.NoError(t, receipt.Attach(strings.NewReader("%PDF-1.3"), "receipt-R-000001.pdf", "application/pdf"))

	noRecipient := &core.EmailMessage{Subject: "lost", BodyStr: "nobody reads this"}

	svc.SendMessages(receipt, noRecipient)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Hello Ana,")
	assert.Contains(t, sent[0].TextContent, "$20.00 for 2024-03")
	assert.Contains(t, sent[0].TextContent, conf.Company.Name)
	assert.Contains(t, sent[0].HTMLContent, "R-000001")
	require.Len(t, sent[0].Attachments, 1)
	assert.Equal(t, "JVBERi0xLjM=", sent[0].Attachments[0].Content.String())

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}
