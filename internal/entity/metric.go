package entity

// MetricType names a derived per-user progress value that achievements can
// be bound to.
type MetricType string

const (
	MetricTotalSongs     MetricType = "total_songs"
	MetricReleasedSongs  MetricType = "released_songs"
	MetricWipSongs       MetricType = "wip_songs"
	MetricFutureSongs    MetricType = "future_songs"
	MetricWipCompletions MetricType = "wip_completions"

	MetricTotalPacks     MetricType = "total_packs"
	MetricReleasedPacks  MetricType = "released_packs"
	MetricAlbumSeries    MetricType = "album_series"
	MetricCompletedPacks MetricType = "completed_packs"

	MetricCollaborations       MetricType = "collaborations"
	MetricCollaboratorsAdded   MetricType = "collaborators_added"
	MetricCollaborationsJoined MetricType = "collaborations_joined"

	MetricPlaylistImports MetricType = "playlist_imports"

	MetricFeatureRequests MetricType = "feature_requests"
	MetricLoginStreak     MetricType = "login_streak"

	MetricUniqueArtists    MetricType = "unique_artists"
	MetricUniqueYears      MetricType = "unique_years"
	MetricUniqueDecades    MetricType = "unique_decades"
	MetricAlphabetCoverage MetricType = "alphabet_coverage"

	MetricCompletedSongs MetricType = "completed_songs"
	MetricCompletedSteps MetricType = "completed_steps"

	MetricProfilePic    MetricType = "profile_pic"
	MetricPersonalLink  MetricType = "personal_link"
	MetricContactMethod MetricType = "contact_method"
)

// MetricFamily groups metrics that change together, so a single kind of
// activity only re-checks the achievements it can affect.
type MetricFamily string

const (
	FamilySongs          MetricFamily = "songs"
	FamilyPacks          MetricFamily = "packs"
	FamilyCollaborations MetricFamily = "collaborations"
	FamilyImports        MetricFamily = "imports"
	FamilyEngagement     MetricFamily = "engagement"
	FamilyDiversity      MetricFamily = "diversity"
	FamilyWorkflow       MetricFamily = "workflow"
	FamilyProfile        MetricFamily = "profile"
)

var metricFamilies = map[MetricType]MetricFamily{
	MetricTotalSongs:     FamilySongs,
	MetricReleasedSongs:  FamilySongs,
	MetricWipSongs:       FamilySongs,
	MetricFutureSongs:    FamilySongs,
	MetricWipCompletions: FamilySongs,

	MetricTotalPacks:     FamilyPacks,
	MetricReleasedPacks:  FamilyPacks,
	MetricAlbumSeries:    FamilyPacks,
	MetricCompletedPacks: FamilyPacks,

	MetricCollaborations:       FamilyCollaborations,
	MetricCollaboratorsAdded:   FamilyCollaborations,
	MetricCollaborationsJoined: FamilyCollaborations,

	MetricPlaylistImports: FamilyImports,

	MetricFeatureRequests: FamilyEngagement,
	MetricLoginStreak:     FamilyEngagement,

	MetricUniqueArtists:    FamilyDiversity,
	MetricUniqueYears:      FamilyDiversity,
	MetricUniqueDecades:    FamilyDiversity,
	MetricAlphabetCoverage: FamilyDiversity,

	MetricCompletedSongs: FamilyWorkflow,
	MetricCompletedSteps: FamilyWorkflow,

	MetricProfilePic:    FamilyProfile,
	MetricPersonalLink:  FamilyProfile,
	MetricContactMethod: FamilyProfile,
}

// Family reports the family of a known metric.
func (m MetricType) Family() (MetricFamily, bool) {
	f, ok := metricFamilies[m]
	return f, ok
}

// Known reports whether m is part of the metric vocabulary.
func (m MetricType) Known() bool {
	_, ok := metricFamilies[m]
	return ok
}

// Valid reports whether f names a metric family.
func (f MetricFamily) Valid() bool {
	for _, known := range metricFamilies {
		if known == f {
			return true
		}
	}
	return false
}
