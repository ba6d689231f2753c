package service

import "github.com/nicksnyder/go-i18n/v2/i18n"

// English text is the fallback when a language has no translation
var (
	msgTodoCreated        = &i18n.Message{ID: "TodoCreated", Other: "Todo created."}
	msgTodoDuplicate      = &i18n.Message{ID: "TodoDuplicate", Other: "Duplicate todo found."}
	msgTodoFound          = &i18n.Message{ID: "TodoFound", Other: "Todo found."}
	msgTodoNotFound       = &i18n.Message{ID: "TodoNotFound", Other: "Todo not found."}
	msgTodosFound         = &i18n.Message{ID: "TodosFound", Other: "Todos found."}
	msgTodoUpdated        = &i18n.Message{ID: "TodoUpdated", Other: "Todo updated."}
	msgTodoNoValidFields  = &i18n.Message{ID: "TodoNoValidFields", Other: "No valid fields available to update."}
	msgTodoDeleted        = &i18n.Message{ID: "TodoDeleted", Other: "Todo deleted."}
	msgSomethingWentWrong = &i18n.Message{ID: "SomethingWentWrong", Other: "Something went wrong."}
)
