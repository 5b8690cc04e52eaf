package survival

import "slices"

type achievement struct {
	id          string
	name        string
	description string
	unlocked    func(e *Engine) bool
}

var achievementCatalog = []achievement{
	{id: "survivor_10", name: "Survivor", description: "Survive 10 days", unlocked: func(e *Engine) bool { return e.day >= 10 }},
	{id: "survivor_25", name: "Veteran", description: "Survive 25 days", unlocked: func(e *Engine) bool { return e.day >= 25 }},
	{id: "hunter", name: "Hunter", description: "Kill 5 creatures", unlocked: func(e *Engine) bool { return e.stats.CreaturesKilled >= 5 }},
	{id: "hero", name: "Hero", description: "Complete 3 missions", unlocked: func(e *Engine) bool { return e.stats.MissionsCompleted >= 3 }},
	{id: "best_friend", name: "Best Friend", description: "Find a companion", unlocked: func(e *Engine) bool { return e.companion != nil }},
}

func knownAchievement(id string) bool {
	for _, a := range achievementCatalog {
		if a.id == id {
			return true
		}
	}
	return false
}

func (e *Engine) checkAchievements() {
	for _, a := range achievementCatalog {
		if slices.Contains(e.achievements, a.id) || !a.unlocked(e) {
			continue
		}
		e.achievements = append(e.achievements, a.id)
		e.logf(SeveritySuccess, "🏆 Achievement Unlocked: %s - %s", a.name, a.description)
		e.notifier.Notify(SoundAchievement)
	}
}
