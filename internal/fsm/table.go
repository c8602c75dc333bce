package fsm

import (
	"fmt"

	"github.com/abhisek/didi/internal/classifier"
	"github.com/abhisek/didi/internal/session"
)

// HandlerID names the action a transition runs.
type HandlerID string

const (
	HandleGreet          HandlerID = "greet"
	HandleStartTeaching  HandlerID = "start_teaching"
	HandleSwitchLanguage HandlerID = "switch_language"
	HandleComfort        HandlerID = "comfort"
	HandleEndSession     HandlerID = "end_session"
	HandleAskRepeat      HandlerID = "ask_repeat"
	HandleReteach        HandlerID = "reteach"
	HandleExplainConcept HandlerID = "explain_concept"
	HandleAskQuestion    HandlerID = "ask_question"
	HandleEvaluate       HandlerID = "evaluate"
	HandleRereadQuestion HandlerID = "reread_question"
	HandleGiveHint       HandlerID = "give_hint"
	HandleRereadHint     HandlerID = "reread_hint"
	HandleRedirect       HandlerID = "redirect"
	HandleAdvance        HandlerID = "advance"
	HandleFarewell       HandlerID = "farewell"
)

// Transition is one cell of the table. Next is the state the handler moves
// to on its usual path. evaluate, reteach, give_hint and advance may pick a
// different outcome from the session counters.
type Transition struct {
	Handler HandlerID
	Next    session.State
}

type row = map[classifier.Category]Transition

// table holds all 60 cells. Every row lists every category; there is no
// default branch.
var table = map[session.State]row{
	session.StateGreeting: {
		classifier.CategoryAck:            {HandleStartTeaching, session.StateTeaching},
		classifier.CategoryDontKnow:       {HandleStartTeaching, session.StateTeaching},
		classifier.CategoryRepeat:         {HandleGreet, session.StateGreeting},
		classifier.CategoryAnswer:         {HandleStartTeaching, session.StateTeaching},
		classifier.CategoryLanguageSwitch: {HandleSwitchLanguage, session.StateGreeting},
		classifier.CategoryConceptRequest: {HandleStartTeaching, session.StateTeaching},
		classifier.CategoryComfort:        {HandleComfort, session.StateGreeting},
		classifier.CategoryStop:           {HandleEndSession, session.StateSessionEnd},
		classifier.CategoryOffTopic:       {HandleStartTeaching, session.StateTeaching},
		classifier.CategoryUnintelligible: {HandleAskRepeat, session.StateGreeting},
	},
	session.StateTeaching: {
		classifier.CategoryAck:            {HandleAskQuestion, session.StateAwaitingAnswer},
		classifier.CategoryDontKnow:       {HandleReteach, session.StateTeaching},
		classifier.CategoryRepeat:         {HandleReteach, session.StateTeaching},
		classifier.CategoryAnswer:         {HandleEvaluate, session.StateAdvancing},
		classifier.CategoryLanguageSwitch: {HandleSwitchLanguage, session.StateTeaching},
		classifier.CategoryConceptRequest: {HandleReteach, session.StateTeaching},
		classifier.CategoryComfort:        {HandleComfort, session.StateTeaching},
		classifier.CategoryStop:           {HandleEndSession, session.StateSessionEnd},
		classifier.CategoryOffTopic:       {HandleRedirect, session.StateTeaching},
		classifier.CategoryUnintelligible: {HandleAskRepeat, session.StateTeaching},
	},
	session.StateAwaitingAnswer: {
		classifier.CategoryAck:            {HandleRereadQuestion, session.StateAwaitingAnswer},
		classifier.CategoryDontKnow:       {HandleGiveHint, session.StateHinting},
		classifier.CategoryRepeat:         {HandleRereadQuestion, session.StateAwaitingAnswer},
		classifier.CategoryAnswer:         {HandleEvaluate, session.StateAdvancing},
		classifier.CategoryLanguageSwitch: {HandleSwitchLanguage, session.StateAwaitingAnswer},
		classifier.CategoryConceptRequest: {HandleExplainConcept, session.StateTeaching},
		classifier.CategoryComfort:        {HandleComfort, session.StateAwaitingAnswer},
		classifier.CategoryStop:           {HandleEndSession, session.StateSessionEnd},
		classifier.CategoryOffTopic:       {HandleRedirect, session.StateAwaitingAnswer},
		classifier.CategoryUnintelligible: {HandleAskRepeat, session.StateAwaitingAnswer},
	},
	session.StateHinting: {
		classifier.CategoryAck:            {HandleRereadQuestion, session.StateAwaitingAnswer},
		classifier.CategoryDontKnow:       {HandleGiveHint, session.StateHinting},
		classifier.CategoryRepeat:         {HandleRereadHint, session.StateHinting},
		classifier.CategoryAnswer:         {HandleEvaluate, session.StateAdvancing},
		classifier.CategoryLanguageSwitch: {HandleSwitchLanguage, session.StateHinting},
		classifier.CategoryConceptRequest: {HandleExplainConcept, session.StateTeaching},
		classifier.CategoryComfort:        {HandleComfort, session.StateHinting},
		classifier.CategoryStop:           {HandleEndSession, session.StateSessionEnd},
		classifier.CategoryOffTopic:       {HandleRedirect, session.StateHinting},
		classifier.CategoryUnintelligible: {HandleAskRepeat, session.StateHinting},
	},
	// ADVANCING resolves within the turn that enters it. These cells only
	// run for a session persisted mid-advance.
	session.StateAdvancing: {
		classifier.CategoryAck:            {HandleAdvance, session.StateAwaitingAnswer},
		classifier.CategoryDontKnow:       {HandleAdvance, session.StateAwaitingAnswer},
		classifier.CategoryRepeat:         {HandleAdvance, session.StateAwaitingAnswer},
		classifier.CategoryAnswer:         {HandleAdvance, session.StateAwaitingAnswer},
		classifier.CategoryLanguageSwitch: {HandleSwitchLanguage, session.StateAdvancing},
		classifier.CategoryConceptRequest: {HandleExplainConcept, session.StateTeaching},
		classifier.CategoryComfort:        {HandleComfort, session.StateAdvancing},
		classifier.CategoryStop:           {HandleEndSession, session.StateSessionEnd},
		classifier.CategoryOffTopic:       {HandleAdvance, session.StateAwaitingAnswer},
		classifier.CategoryUnintelligible: {HandleAskRepeat, session.StateAdvancing},
	},
	session.StateSessionEnd: {
		classifier.CategoryAck:            {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryDontKnow:       {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryRepeat:         {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryAnswer:         {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryLanguageSwitch: {HandleSwitchLanguage, session.StateSessionEnd},
		classifier.CategoryConceptRequest: {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryComfort:        {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryStop:           {HandleEndSession, session.StateSessionEnd},
		classifier.CategoryOffTopic:       {HandleFarewell, session.StateSessionEnd},
		classifier.CategoryUnintelligible: {HandleAskRepeat, session.StateSessionEnd},
	},
}

// Lookup returns the cell for (state, category). It fails only for values
// outside the closed state and category sets.
func Lookup(state session.State, cat classifier.Category) (Transition, error) {
	r, ok := table[state]
	if !ok {
		return Transition{}, fmt.Errorf("unknown state %q", state)
	}
	t, ok := r[cat]
	if !ok {
		return Transition{}, fmt.Errorf("unknown category %q", cat)
	}
	return t, nil
}

// Resolve applies the universal overrides and then looks up the cell. STOP
// always ends the session; LANGUAGE_SWITCH always stays put.
func Resolve(state session.State, cat classifier.Category) (Transition, error) {
	switch cat {
	case classifier.CategoryStop:
		return Transition{HandleEndSession, session.StateSessionEnd}, nil
	case classifier.CategoryLanguageSwitch:
		if !state.Valid() {
			return Transition{}, fmt.Errorf("unknown state %q", state)
		}
		return Transition{HandleSwitchLanguage, state}, nil
	}
	return Lookup(state, cat)
}
