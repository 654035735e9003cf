package main

import (
	"net/http"
	"strconv"

	"github.com/myrjola/fraudintake/internal/dialogue"
	"github.com/myrjola/fraudintake/internal/media"
	"github.com/myrjola/fraudintake/internal/twiml"
)

// Twilio sends at most ten attachments per message.
const maxMediaPerMessage = 10

// whatsapp is the webhook the messaging provider calls for every inbound message. It replies with TwiML.
func (app *application) whatsapp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	from := r.PostForm.Get("From")
	if from == "" {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	numMedia, _ := strconv.Atoi(r.PostForm.Get("NumMedia"))
	numMedia = min(max(numMedia, 0), maxMediaPerMessage)
	refs := make([]media.Ref, 0, numMedia)
	for i := range numMedia {
		url := r.PostForm.Get("MediaUrl" + strconv.Itoa(i))
		if url == "" {
			continue
		}
		refs = append(refs, media.Ref{URL: url, ContentType: r.PostForm.Get("MediaContentType" + strconv.Itoa(i))})
	}

	reply := app.engine.Handle(r.Context(), dialogue.Inbound{
		ConversationID: from,
		Body:           r.PostForm.Get("Body"),
		Media:          refs,
	})

	body, err := twiml.Message(reply)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", twiml.ContentType)
	_, _ = w.Write(body)
}
