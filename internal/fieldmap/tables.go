package fieldmap

// Таблицы соответствий сняты со схемы базы Airtable (Meta API).
// При изменении схемы обновляются руками — бот схему не мигрирует.

var Participants = New(Config{
	Fields: map[string]string{
		"full_name_ru":    "FullNameRU",
		"full_name_en":    "FullNameEN",
		"gender":          "Gender",
		"size":            "Size",
		"church":          "Church",
		"role":            "Role",
		"department":      "Department",
		"floor_number":    "Floor",
		"room_number":     "RoomNumber",
		"contact_info":    "ContactInformation",
		"notes":           "Notes",
		"table_group_ids": "TableGroup",
	},
	FieldIDs: map[string]string{
		"FullNameRU":         "fldOcpA3JW5UyLXrZ",
		"FullNameEN":         "fldrFVwydNtGaLQ9U",
		"Gender":             "fldZbMGLXj2yk7Hqa",
		"Size":               "fldSiVwXegvbxk3mC",
		"Church":             "fldJgNfaTzL8QpDs5",
		"Role":               "fldGEnq6EjKMA7zZv",
		"Department":         "fldiFmBtdLg2yT4Wk",
		"Floor":              "fldUwPqDGhT3mV8cN",
		"RoomNumber":         "fldePRm9vXJwq1KbF",
		"ContactInformation": "fldyHsSQbWxn4ZG2j",
		"Notes":              "fldAkDvf7cRmU6pLt",
		"TableGroup":         "fldMxTjE5bYwNqC8d",
	},
	OptionIDs: map[string]map[string]string{
		"Gender": {
			"M": "selccDvZgWm3kP1xT",
			"F": "selTnAq8fLbXj5uRe",
		},
		"Role": {
			"CANDIDATE": "selvGyKp2cQwT9mDa",
			"TEAM":      "selHdRx7jNfLb4sEw",
		},
		"Department": {
			"Worship":        "selQmZt3vKcXp8gHn",
			"Kitchen":        "selBwFy6dMjRa2uLq",
			"Decoration":     "selkEsN9hPbTv5cWx",
			"Administration": "selYrGu4nQdZm7jAf",
			"Media":          "selXcLw8tVfKe3pBs",
		},
		"Size": {
			"XS":  "selwNpD2gRcYu6mTh",
			"S":   "selFbKx5jAeWq9vZn",
			"M":   "selmQsT8dHgLc3rEy",
			"L":   "selJvYw4fUzNb7kCp",
			"XL":  "selTgMa6sXjPe2dRw",
			"XXL": "selnCfH9wBqVu5zKt",
		},
	},
	Writable: []string{
		"full_name_ru", "full_name_en", "gender", "size", "role",
		"department", "floor_number", "room_number", "contact_info",
		"notes", "table_group_ids",
	},
	// church — lookup из связанной записи, только чтение
})

var BibleReaders = New(Config{
	Fields: map[string]string{
		"passage":           "Passage",
		"when":              "When",
		"where":             "Where",
		"participant_ids":   "Participants",
		"participant_names": "ParticipantName",
		"church_names":      "Church",
		"room_numbers":      "RoomNumber",
	},
	FieldIDs: map[string]string{
		"Passage":         "fldsTmKv3xWcQ8nRe",
		"When":            "fldpGzB7hJdYa5uLw",
		"Where":           "fldDqNx2fScMe9kTj",
		"Participants":    "fldVbWy6tRgZp4cHm",
		"ParticipantName": "fldKeLu9dAfXw7sQn",
		"Church":          "fldhRjC4mTbNv2gEz",
		"RoomNumber":      "fldwYpF8kDcSu6xMa",
	},
	Writable: []string{"passage", "when", "where", "participant_ids"},
	// participant_names/church_names/room_numbers — lookup, только чтение
})

var ROE = New(Config{
	Fields: map[string]string{
		"topic":              "Topic",
		"when":               "When",
		"duration":           "Duration",
		"presenter_ids":      "Presenter",
		"assistant_ids":      "Assistant",
		"presenter_names":    "PresenterName",
		"assistant_names":    "AssistantName",
		"presenter_churches": "PresenterChurch",
	},
	FieldIDs: map[string]string{
		"Topic":           "fldNcQw5vZjTe8bKm",
		"When":            "fldzLkG3sHdXa6uPr",
		"Duration":        "fldtBvM9fWcRy2nEq",
		"Presenter":       "fldgSjZ7dKeNu4xCw",
		"Assistant":       "fldqFmT2hLbVi9rYa",
		"PresenterName":   "fldxAeP6wQgZc3kSn",
		"AssistantName":   "fldlWuD8jTfMb5vHe",
		"PresenterChurch": "fldmKrX4cYnQs7gBz",
	},
	Writable: []string{"topic", "when", "duration", "presenter_ids", "assistant_ids"},
})

var AccessRequests = New(Config{
	Fields: map[string]string{
		"telegram_user_id":  "TelegramUserID",
		"telegram_username": "TelegramUsername",
		"status":            "Status",
		"access_level":      "AccessLevel",
		"requested_at":      "RequestedAt",
		"reviewed_at":       "ReviewedAt",
		"reviewed_by":       "ReviewedBy",
	},
	FieldIDs: map[string]string{
		"TelegramUserID":   "fldbHnV5tHsAq3cWj",
		"TelegramUsername": "fldvTpK8rBwDf6zMe",
		"Status":           "fldCyJg2mFxLn9uSa",
		"AccessLevel":      "fldjQdR7wNkPe4bTv",
		"RequestedAt":      "fldfMsX3cVgZu8hKw",
		"ReviewedAt":       "fldaGwL6kScYb2nQr",
		"ReviewedBy":       "fldoZeT9dJmWv5xFp",
	},
	OptionIDs: map[string]map[string]string{
		"Status": {
			"pending":  "selpVnK3gRdXw7cMu",
			"approved": "selrBsG8mZjQe2fTy",
			"denied":   "seldWkA5tNcLp9uHb",
		},
		"AccessLevel": {
			"viewer":      "selhJxE4vQbMa6sZw",
			"coordinator": "selcPfU7nWgKt3dRe",
			"admin":       "selgTmY2bXvNc8kLq",
		},
	},
	Writable: []string{
		"telegram_user_id", "telegram_username", "status",
		"access_level", "requested_at", "reviewed_at", "reviewed_by",
	},
})
