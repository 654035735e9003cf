package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/myrjola/fraudintake/internal/e2etest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_whatsapp(t *testing.T) {
	ctx := context.Background()
	env := startTestServer(t, nil)
	client := env.server.Client()
	from := "whatsapp:+919876543210"

	png := []byte("\x89PNG\r\n\x1a\n fake screenshot")
	mediaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	t.Cleanup(mediaServer.Close)

	reply, err := client.SendWhatsApp(ctx, from, "hello")
	require.NoError(t, err)
	require.Equal(t, catalog.Render(catalog.English, catalog.KeyWelcome, nil), reply)

	reply, err = client.SendWhatsApp(ctx, from, "2")
	require.NoError(t, err)
	require.Equal(t, catalog.Render(catalog.Hindi, catalog.KeyConsent, nil), reply)

	for _, body := range []string{"1", "5", "2", "1", "surat", "Fake refund call", "+91 98111 22233", "1500"} {
		_, err = client.SendWhatsApp(ctx, from, body)
		require.NoError(t, err, "send %q", body)
	}
	reply, err = client.SendWhatsApp(ctx, from, "attached", e2etest.Media{
		URL:         mediaServer.URL + "/Media/ME123",
		ContentType: "image/png",
	})
	require.NoError(t, err)
	require.Equal(t, catalog.Render(catalog.Hindi, catalog.KeyAnonymous, nil), reply)

	reply, err = client.SendWhatsApp(ctx, from, "1")
	require.NoError(t, err)
	ref := referencePattern.FindString(reply)
	require.NotEmpty(t, ref, reply)

	require.NoError(t, client.Login(ctx, testAdminUsername, testAdminPassword))
	var list reportList
	status, err := client.DoJSON(ctx, http.MethodGet, "/api/admin/reports?q="+ref, nil, &list)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Reports, 1)

	report := list.Reports[0]
	assert.Equal(t, ref, report.ReferenceID)
	assert.Equal(t, "ANONYMOUS", report.Phone)
	assert.True(t, report.Anonymous)
	assert.Equal(t, "hi", report.Language)
	assert.Equal(t, "Andhra Pradesh", report.LocationState)
	assert.Equal(t, "Surat", report.LocationCity)
	assert.Equal(t, "+91 98111 22233", report.SuspectPhone)
	assert.Equal(t, "attached", report.EvidenceText)
	require.Len(t, report.MediaFiles, 1)
	assert.True(t, strings.HasPrefix(report.MediaFiles[0], "file://"), report.MediaFiles[0])
}

func Test_whatsapp_badRequest(t *testing.T) {
	ctx := context.Background()
	env := startTestServer(t, nil)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, env.server.URL()+"/whatsapp",
		strings.NewReader("Body=hi"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_whatsapp_conversationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	env := startTestServer(t, nil)
	client := env.server.Client()

	refA := fileReport(ctx, t, client, "whatsapp:+911111111111", "first victim")
	refB := fileReport(ctx, t, client, "whatsapp:+912222222222", "second victim")
	require.NotEqual(t, refA, refB)
}
