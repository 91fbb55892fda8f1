package bayes

// UpdateOne computes the conjugate posterior for a single observation:
// a1 = s + a0, b1 = (n - s) + b0.
func UpdateOne(prior Prior, obs Observation) (Posterior, error) {
	if err := prior.Validate(); err != nil {
		return Posterior{}, err
	}
	if err := obs.Validate(); err != nil {
		return Posterior{}, err
	}
	return Posterior{
		Alpha: float64(obs.Successes) + prior.Alpha,
		Beta:  float64(obs.Trials-obs.Successes) + prior.Beta,
	}, nil
}

// Update computes posteriors for a batch of observations, one per input
// record, same order and length. Validation failures surface immediately;
// counts are never clamped because a clamped count would silently corrupt
// every downstream probability.
func Update(prior Prior, observations []Observation) ([]Posterior, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	posteriors := make([]Posterior, len(observations))
	for i, obs := range observations {
		if err := obs.Validate(); err != nil {
			return nil, err
		}
		posteriors[i] = Posterior{
			Alpha: float64(obs.Successes) + prior.Alpha,
			Beta:  float64(obs.Trials-obs.Successes) + prior.Beta,
		}
	}
	return posteriors, nil
}
