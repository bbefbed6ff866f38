package catalog

import "anoa.com/trackforge/internal/entity"

type tier struct {
	code, name, description string
	target                  int
	rarity                  string
}

var rarityPoints = map[string]int{
	RarityCommon:    10,
	RarityUncommon:  25,
	RarityRare:      50,
	RarityEpic:      100,
	RarityLegendary: 250,
}

func metricTiers(metric entity.MetricType, category, icon string, tiers ...tier) []Definition {
	out := make([]Definition, 0, len(tiers))
	for _, t := range tiers {
		target := t.target
		out = append(out, Definition{
			Code:        t.code,
			Name:        t.name,
			Description: t.description,
			Icon:        icon,
			Category:    category,
			Rarity:      t.rarity,
			Points:      rarityPoints[t.rarity],
			Metric:      metric,
			Target:      &target,
		})
	}
	return out
}

func defaultDefinitions() []Definition {
	var defs []Definition
	add := func(d ...Definition) { defs = append(defs, d...) }

	add(Definition{
		Code: CodeWelcome, Name: "Welcome Aboard", Description: "Joined the charting community",
		Icon: "👋", Category: "milestones", Rarity: RarityCommon, Points: 0, Family: entity.FamilyEngagement,
	})

	add(metricTiers(entity.MetricTotalSongs, "songs", "🎵",
		tier{"first_song", "First Track", "Added your first song", 1, RarityCommon},
		tier{"songs_10", "Setlist", "Added 10 songs", 10, RarityCommon},
		tier{"songs_50", "Deep Catalog", "Added 50 songs", 50, RarityUncommon},
		tier{"songs_100", "Centurion", "Added 100 songs", 100, RarityRare},
		tier{"songs_500", "Archivist", "Added 500 songs", 500, RarityEpic},
	)...)
	add(metricTiers(entity.MetricReleasedSongs, "songs", "🚀",
		tier{"first_release", "Shipped", "Released your first song", 1, RarityCommon},
		tier{"released_10", "Regular Releaser", "Released 10 songs", 10, RarityUncommon},
		tier{"released_50", "Hit Factory", "Released 50 songs", 50, RarityRare},
		tier{"released_100", "Legendary Output", "Released 100 songs", 100, RarityLegendary},
	)...)
	add(metricTiers(entity.MetricWipSongs, "songs", "🛠️",
		tier{"wip_5", "Plates Spinning", "Have 5 songs in progress", 5, RarityCommon},
		tier{"wip_20", "Workbench", "Have 20 songs in progress", 20, RarityUncommon},
	)...)
	add(metricTiers(entity.MetricFutureSongs, "songs", "🗓️",
		tier{"future_10", "Big Plans", "Plan 10 future songs", 10, RarityCommon},
		tier{"future_50", "Visionary", "Plan 50 future songs", 50, RarityUncommon},
	)...)
	add(metricTiers(entity.MetricWipCompletions, "songs", "✅",
		tier{"wip_done_1", "Finisher", "Took a song from in progress to released", 1, RarityCommon},
		tier{"wip_done_10", "Closer", "Finished 10 songs you started", 10, RarityUncommon},
		tier{"wip_done_50", "Relentless", "Finished 50 songs you started", 50, RarityRare},
	)...)

	add(metricTiers(entity.MetricTotalPacks, "packs", "📦",
		tier{"first_pack", "Bundled", "Created your first pack", 1, RarityCommon},
		tier{"packs_5", "Pack Rat", "Created 5 packs", 5, RarityUncommon},
		tier{"packs_20", "Warehouse", "Created 20 packs", 20, RarityRare},
	)...)
	add(metricTiers(entity.MetricReleasedPacks, "packs", "🎁",
		tier{"first_pack_release", "Pack Drop", "Released your first pack", 1, RarityUncommon},
		tier{"released_packs_5", "Season Pass", "Released 5 packs", 5, RarityRare},
		tier{"released_packs_20", "Label Boss", "Released 20 packs", 20, RarityEpic},
	)...)
	add(metricTiers(entity.MetricAlbumSeries, "packs", "💿",
		tier{"first_album_series", "Album Series", "Started an album series", 1, RarityUncommon},
		tier{"album_series_5", "Discographer", "Started 5 album series", 5, RarityRare},
	)...)
	add(metricTiers(entity.MetricCompletedPacks, "packs", "🏁",
		tier{"first_complete_pack", "Full Pack", "Completed every required song in a pack", 1, RarityUncommon},
		tier{"complete_packs_5", "Completionist", "Completed 5 packs", 5, RarityRare},
		tier{"complete_packs_20", "Perfectionist", "Completed 20 packs", 20, RarityLegendary},
	)...)

	add(metricTiers(entity.MetricCollaborations, "collaborations", "🤝",
		tier{"first_collab", "Team Player", "Joined your first collaboration", 1, RarityCommon},
		tier{"collabs_10", "Networker", "Took part in 10 collaborations", 10, RarityUncommon},
		tier{"collabs_50", "Community Pillar", "Took part in 50 collaborations", 50, RarityEpic},
	)...)
	add(metricTiers(entity.MetricCollaboratorsAdded, "collaborations", "📣",
		tier{"host_1", "Host", "Added a collaborator to your work", 1, RarityCommon},
		tier{"host_10", "Bandleader", "Added 10 collaborators", 10, RarityRare},
	)...)
	add(metricTiers(entity.MetricCollaborationsJoined, "collaborations", "🎸",
		tier{"guest_1", "Session Player", "Were added to someone else's work", 1, RarityCommon},
		tier{"guest_10", "Session Veteran", "Were added to 10 collaborations", 10, RarityRare},
	)...)

	add(metricTiers(entity.MetricPlaylistImports, "imports", "📥",
		tier{"first_import", "Importer", "Imported a playlist", 1, RarityCommon},
		tier{"imports_10", "Crate Digger", "Imported 10 playlists", 10, RarityUncommon},
	)...)

	add(metricTiers(entity.MetricFeatureRequests, "engagement", "💡",
		tier{"first_feature_request", "Idea Person", "Filed a feature request", 1, RarityCommon},
		tier{"feature_requests_10", "Product Voice", "Filed 10 feature requests", 10, RarityUncommon},
	)...)
	add(metricTiers(entity.MetricLoginStreak, "engagement", "🔥",
		tier{"streak_7", "On a Roll", "Logged in 7 days in a row", 7, RarityCommon},
		tier{"streak_30", "Dedicated", "Logged in 30 days in a row", 30, RarityRare},
		tier{"streak_100", "Unstoppable", "Logged in 100 days in a row", 100, RarityLegendary},
	)...)

	add(metricTiers(entity.MetricUniqueArtists, "diversity", "🎤",
		tier{"artists_10", "Eclectic", "Released songs by 10 different artists", 10, RarityUncommon},
		tier{"artists_50", "Tastemaker", "Released songs by 50 different artists", 50, RarityRare},
		tier{"artists_100", "Encyclopedic", "Released songs by 100 different artists", 100, RarityEpic},
	)...)
	add(metricTiers(entity.MetricUniqueYears, "diversity", "📅",
		tier{"years_10", "Time Traveller", "Released songs from 10 different years", 10, RarityUncommon},
		tier{"years_30", "Historian", "Released songs from 30 different years", 30, RarityRare},
	)...)
	add(metricTiers(entity.MetricUniqueDecades, "diversity", "⏳",
		tier{"decades_3", "Generation Gap", "Released songs from 3 decades", 3, RarityUncommon},
		tier{"decades_6", "Through the Ages", "Released songs from 6 decades", 6, RarityEpic},
	)...)
	add(metricTiers(entity.MetricAlphabetCoverage, "diversity", "🔤",
		tier{"alphabet_13", "Halfway Through", "Released songs covering 13 letters", 13, RarityUncommon},
		tier{"alphabet_26", "A to Z", "Released songs covering every letter", 26, RarityLegendary},
	)...)

	add(metricTiers(entity.MetricCompletedSongs, "workflow", "🎼",
		tier{"first_complete_song", "Fully Charted", "Completed every step of a song", 1, RarityCommon},
		tier{"complete_songs_25", "Chart Machine", "Completed 25 songs", 25, RarityRare},
		tier{"complete_songs_100", "Master Charter", "Completed 100 songs", 100, RarityLegendary},
	)...)
	add(metricTiers(entity.MetricCompletedSteps, "workflow", "🪜",
		tier{"steps_50", "Step by Step", "Completed 50 workflow steps", 50, RarityCommon},
		tier{"steps_500", "Grinder", "Completed 500 workflow steps", 500, RarityRare},
	)...)
	add(Definition{
		Code: CodeWorkflowCustomizer, Name: "My Way", Description: "Customised your authoring workflow",
		Icon: "⚙️", Category: "workflow", Rarity: RarityUncommon, Points: rarityPoints[RarityUncommon], Family: entity.FamilyWorkflow,
	})

	add(metricTiers(entity.MetricProfilePic, "profile", "🖼️",
		tier{"profile_pic", "Say Cheese", "Added a profile picture", 1, RarityCommon},
	)...)
	add(metricTiers(entity.MetricPersonalLink, "profile", "🔗",
		tier{"personal_link", "Linked Up", "Added a personal link", 1, RarityCommon},
	)...)
	add(metricTiers(entity.MetricContactMethod, "profile", "✉️",
		tier{"contact_method", "Reachable", "Added a contact method", 1, RarityCommon},
	)...)
	add(Definition{
		Code: CodeProfileComplete, Name: "All About Me", Description: "Filled in picture, link and contact method",
		Icon: "🪪", Category: "profile", Rarity: RarityUncommon, Points: rarityPoints[RarityUncommon], Family: entity.FamilyProfile,
	})

	return defs
}

var defaultRegistry = MustNew(defaultDefinitions())

// Default is the built-in catalog.
func Default() *Registry {
	return defaultRegistry
}
