package reward

// Normalize 生のペイロードを正規化する
// 入力がnilの場合はnilを返す。同じ入力に対して常に同じ結果を返す
func Normalize(raw *RawPayload) *ViewModel {
	if raw == nil {
		return nil
	}

	vm := &ViewModel{
		Giveaway: normalizeGiveaway(raw),
		User:     normalizeUser(raw.User),
		Progress: normalizeProgress(raw.Progress),
		UI:       normalizeUI(raw.UI),
		Orders:   []Order{},
		Rewards:  []PastReward{},
	}

	// 注文は user.orders → orders の順
	switch {
	case raw.User != nil && raw.User.Orders != nil:
		vm.Orders = append(vm.Orders, raw.User.Orders...)
	case raw.Orders != nil:
		vm.Orders = append(vm.Orders, raw.Orders...)
	}

	// 過去のリワードは rewards → past の順
	switch {
	case raw.Rewards != nil:
		vm.Rewards = append(vm.Rewards, raw.Rewards...)
	case raw.Past != nil:
		vm.Rewards = append(vm.Rewards, raw.Past...)
	}

	if vm.Giveaway != nil {
		vm.Giveaway.TicketsCurrent = copyFloat(vm.Progress.CurrentTickets)
	}

	return vm
}

// normalizeGiveaway 新形式のrewardを優先し、なければ旧形式のgiveawayを使う
func normalizeGiveaway(raw *RawPayload) *Giveaway {
	if r := raw.Reward; r != nil {
		return &Giveaway{
			ID:              r.RewardID.String(),
			Status:          ParseStatus(r.Status),
			PrizeName:       r.RewardName,
			Description:     r.RewardDescription,
			PrizeImage:      r.RewardImage,
			PriceUSD:        firstFloat(r.RewardShownUSDValue, r.ValueUSD),
			ValueUSD:        copyFloat(r.ValueUSD),
			PrizeTickets:    copyFloat(r.ValueTickets),
			ProgressPct:     copyFloat(r.ProgressPct),
			StartAt:         r.StartAt,
			FinishedAt:      r.FinishedAt,
			UnlockedMessage: r.UnlockedMessage,
			Locked:          r.Locked,
		}
	}

	if g := raw.Giveaway; g != nil {
		return &Giveaway{
			ID:              g.ID.String(),
			Status:          ParseStatus(g.Status),
			PrizeName:       g.PrizeName,
			Description:     g.Description,
			PrizeImage:      g.PrizeImage,
			PriceUSD:        firstFloat(g.PrizeMSRPUSD, g.PriceUSD),
			PrizeTickets:    copyFloat(g.TargetEntries),
			ProgressPct:     copyFloat(g.ProgressPct),
			StartAt:         g.StartAt,
			UnlockedMessage: g.UnlockedMessage,
			Locked:          g.Locked,
			WinnerDisplay:   g.WinnerDisplay,
		}
	}

	return nil
}

func normalizeUser(u *RawUser) *User {
	if u == nil {
		return nil
	}

	id := u.UserID.String()
	if id == "" {
		id = u.ID.String()
	}

	name := u.Name
	if name == "" {
		name = u.FullName
	}

	entries := 0.0
	if e := firstFloat(u.Entries, u.UserTickets); e != nil {
		entries = *e
	}

	return &User{
		ID:      id,
		Name:    name,
		Email:   u.Email,
		Entries: entries,
	}
}

func normalizeProgress(p *RawProgress) Progress {
	if p == nil {
		return Progress{}
	}
	return Progress{
		DisplayPct:     copyFloat(p.DisplayPct),
		TruePct:        copyFloat(p.TruePct),
		CurrentTickets: copyFloat(p.CurrentTickets),
		UserTickets:    copyFloat(p.UserTickets),
		TargetEntries:  copyFloat(p.TargetEntries),
	}
}

func normalizeUI(ui *RawUIHints) UIHints {
	if ui == nil {
		return UIHints{}
	}
	hints := UIHints{
		ClaimState:    ui.ClaimState,
		TicketsNeeded: copyFloat(ui.TicketsNeeded),
		ProgressText:  ui.ProgressText,
	}
	if ui.CanClaim != nil {
		v := *ui.CanClaim
		hints.CanClaim = &v
	}
	if ui.ClaimDisabledReason != nil {
		hints.ClaimDisabledReason = *ui.ClaimDisabledReason
	}
	return hints
}

// firstFloat 最初の非nil値のコピーを返す
func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return copyFloat(v)
		}
	}
	return nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
