package game

import "sort"

// TaskSummary aggregates one riddle across all players.
type TaskSummary struct {
	TaskID    string `json:"task_id"`
	Attempted int    `json:"attempted"`
	Solved    int    `json:"solved"`
}

// ReportRow is one player's line in the progress report.
type ReportRow struct {
	SlackID  string          `json:"slack_id"`
	Username string          `json:"username"`
	Language Language        `json:"language"`
	Attempts int             `json:"attempts"`
	Solved   map[string]bool `json:"solved"`
}

// Report is a point-in-time snapshot of game progress.
type Report struct {
	Players   int           `json:"players"`
	SolvedAll int           `json:"solved_all"`
	Tasks     []TaskSummary `json:"tasks"`
	Rows      []ReportRow   `json:"rows"`
}

// Summarize builds a report over users for the given riddles. Users whose
// Slack ID is in exclude (operators testing the bots) are left out.
func Summarize(users []*User, taskIDs []string, exclude map[string]bool) Report {
	report := Report{Tasks: make([]TaskSummary, len(taskIDs))}
	for i, id := range taskIDs {
		report.Tasks[i].TaskID = id
	}

	for _, u := range users {
		if u == nil || exclude[u.SlackID] {
			continue
		}
		report.Players++
		row := ReportRow{
			SlackID:  u.SlackID,
			Username: u.Username,
			Language: u.Language,
			Solved:   make(map[string]bool, len(taskIDs)),
		}
		solvedAll := len(taskIDs) > 0
		for i, id := range taskIDs {
			t := u.Task(id)
			if t == nil {
				solvedAll = false
				continue
			}
			row.Attempts += t.Attempts
			if t.Attempts > 0 || t.Completed() {
				report.Tasks[i].Attempted++
			}
			if t.Completed() {
				report.Tasks[i].Solved++
				row.Solved[id] = true
			} else {
				solvedAll = false
			}
		}
		if solvedAll {
			report.SolvedAll++
		}
		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].SlackID < report.Rows[j].SlackID
	})
	return report
}
