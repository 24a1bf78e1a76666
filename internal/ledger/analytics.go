package ledger

import (
	"sort"

	"github.com/rajivgeraev/skillswap-api/internal/models"
)

// SkillAnalytics возвращает статистику по навыкам, отсортированную по числу
// завершённых обменов. Результат кешируется до следующего изменения
// пользователей или запросов.
func (l *Ledger) SkillAnalytics() []models.SkillReport {
	l.mu.RLock()
	if !l.skillsDirty {
		out := append([]models.SkillReport(nil), l.skillCache...)
		l.mu.RUnlock()
		return out
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.skillsDirty {
		l.skillCache = tallySkills(l.users, l.swaps)
		l.skillsDirty = false
	}
	return append([]models.SkillReport(nil), l.skillCache...)
}

func tallySkills(users []*models.User, swaps []*models.SwapRequest) []models.SkillReport {
	tally := make(map[string]*models.SkillReport)
	get := func(skill string) *models.SkillReport {
		r, ok := tally[skill]
		if !ok {
			r = &models.SkillReport{SkillName: skill}
			tally[skill] = r
		}
		return r
	}

	for _, u := range users {
		for _, s := range u.SkillsOffered {
			get(s).OfferedCount++
		}
		for _, s := range u.SkillsWanted {
			get(s).WantedCount++
		}
	}
	for _, r := range swaps {
		if r.Status == models.SwapCompleted {
			get(r.SkillOffered).SwapCount++
		}
	}

	out := make([]models.SkillReport, 0, len(tally))
	for _, r := range tally {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SwapCount != out[j].SwapCount {
			return out[i].SwapCount > out[j].SwapCount
		}
		return out[i].SkillName < out[j].SkillName
	})
	return out
}

// Stats считает сводку для панели администратора
func (l *Ledger) Stats() models.PlatformStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := models.PlatformStats{
		TotalUsers:    len(l.users),
		TotalSwaps:    len(l.swaps),
		TotalFeedback: len(l.feedback),
	}
	for _, u := range l.users {
		if u.IsActive && !u.IsBanned {
			st.ActiveUsers++
		}
		if u.IsBanned {
			st.BannedUsers++
		}
	}
	for _, r := range l.swaps {
		switch r.Status {
		case models.SwapPending:
			st.PendingSwaps++
		case models.SwapCompleted:
			st.CompletedSwaps++
		}
	}
	if len(l.feedback) > 0 {
		sum := 0
		for _, f := range l.feedback {
			sum += f.Rating
		}
		st.AverageRating = float64(sum) / float64(len(l.feedback))
	}
	return st
}
