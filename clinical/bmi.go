/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package clinical

import "math"

// CalculateBMI returns weight / (height in metres)², rounded to one decimal.
// It reports false when either input is not positive.
func CalculateBMI(heightCm, weightKg float64) (float64, bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}

	m := heightCm / 100
	bmi := weightKg / (m * m)

	return math.Round(bmi*10) / 10, true
}

// CategorizeBMI maps a BMI value to its half-open WHO band.
func CategorizeBMI(bmi float64, t Thresholds) BMICategory {
	switch {
	case bmi < t.BMI.Underweight:
		return BMIUnderweight
	case bmi < t.BMI.Overweight:
		return BMINormal
	case bmi < t.BMI.Obese:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// ClassifyBMI classifies a BMI value.
func ClassifyBMI(bmi float64, t Thresholds) Reading {
	r := Reading{Value: bmi}

	switch CategorizeBMI(bmi, t) {
	case BMIUnderweight:
		r.Status, r.Message = StatusWarning, "Below normal weight range"
	case BMINormal:
		r.Status, r.Message = StatusNormal, "Healthy weight range"
	case BMIOverweight:
		r.Status, r.Message = StatusWarning, "Above normal weight range"
	case BMIObese:
		r.Status, r.Message = StatusCritical, "Significantly above normal range"
	}

	return r
}

// BMIHealthRisks lists the health risks associated with a category.
func BMIHealthRisks(c BMICategory) []string {
	switch c {
	case BMIUnderweight:
		return []string{
			"Increased risk of osteoporosis",
			"Weakened immune system",
			"Fertility issues",
			"Delayed wound healing",
		}
	case BMINormal:
		return []string{
			"Lowest risk of weight-related diseases",
			"Optimal health benefits",
			"Better life expectancy",
		}
	case BMIOverweight:
		return []string{
			"Increased risk of heart disease",
			"Higher blood pressure risk",
			"Type 2 diabetes risk",
			"Sleep apnea risk",
		}
	case BMIObese:
		return []string{
			"High risk of cardiovascular disease",
			"Increased diabetes risk",
			"Joint problems and arthritis",
			"Increased cancer risk",
			"Respiratory problems",
		}
	}

	return nil
}

// BMIGuidance lists lifestyle guidance for a category.
func BMIGuidance(c BMICategory) []string {
	switch c {
	case BMIUnderweight:
		return []string{
			"Increase caloric intake with nutrient-dense foods",
			"Add strength training exercises",
			"Consult with a nutritionist",
			"Rule out underlying medical conditions",
		}
	case BMINormal:
		return []string{
			"Maintain current healthy lifestyle",
			"Continue regular physical activity",
			"Follow balanced nutrition",
			"Regular health check-ups",
		}
	case BMIOverweight:
		return []string{
			"Reduce caloric intake by 500-750 calories/day",
			"Increase physical activity to 150+ minutes/week",
			"Focus on whole foods and vegetables",
			"Monitor portion sizes",
		}
	case BMIObese:
		return []string{
			"Consult healthcare provider for weight management plan",
			"Consider structured weight loss program",
			"Gradual lifestyle changes",
			"Regular monitoring and support",
		}
	}

	return nil
}
